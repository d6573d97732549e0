package rpc

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfig = errors.New("rpc: invalid config")
	ErrNotReady      = errors.New("rpc: client not ready")
	ErrFaulted       = errors.New("rpc: client faulted")
)

// RemoteError carries the code of an error report the peer sent instead of a response.
type RemoteError struct {
	Code int32
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("rpc: peer error report (code %d)", e.Code)
}
