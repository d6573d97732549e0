package rpc

import (
	"errors"
	"time"

	"github.com/danmuck/nrfrpc/internal/protocol"
)

type Result string

const (
	ResultOK              Result = "ok"
	ResultInvalidResponse Result = "invalid_response"
	ResultRemoteError     Result = "remote_error"
	ResultTimeout         Result = "timeout"
	ResultTransport       Result = "transport"
	ResultFaulted         Result = "faulted"
	ResultError           Result = "error"
)

type Direction string

const (
	DirectionTx Direction = "tx"
	DirectionRx Direction = "rx"
)

// Observer receives conversation events. Implementations must not block.
type Observer interface {
	GroupRegistered(group string, id uint8, resolved bool)
	CommandCompleted(group string, commandID uint8, result Result, elapsed time.Duration)
	BytesTransferred(dir Direction, n int)
}

type nopObserver struct{}

func (nopObserver) GroupRegistered(string, uint8, bool)                   {}
func (nopObserver) CommandCompleted(string, uint8, Result, time.Duration) {}
func (nopObserver) BytesTransferred(Direction, int)                       {}

// ResultOf classifies a SendCommand error.
func ResultOf(err error) Result {
	var remote *RemoteError
	switch {
	case err == nil:
		return ResultOK
	case errors.As(err, &remote):
		return ResultRemoteError
	case errors.Is(err, ErrFaulted), errors.Is(err, ErrNotReady):
		return ResultFaulted
	case errors.Is(err, protocol.ErrTimeout):
		return ResultTimeout
	case errors.Is(err, protocol.ErrTransport):
		return ResultTransport
	case errors.Is(err, protocol.ErrInvalidResponse):
		return ResultInvalidResponse
	default:
		return ResultError
	}
}
