package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrTransport       = errors.New("protocol: transport failure")
	ErrBufferTooSmall  = errors.New("protocol: buffer too small")
	ErrEncoding        = errors.New("protocol: encoding failure")
	ErrInvalidResponse = errors.New("protocol: invalid response")
	ErrTimeout         = errors.New("protocol: timeout")
)

// CodecError reports a failed encode step. Err is ErrBufferTooSmall or ErrEncoding.
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("protocol: %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// NewCodecError classifies err as a buffer overflow or a generic encoding failure.
func NewCodecError(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CodecError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, ErrBufferTooSmall) {
		return &CodecError{Op: op, Err: ErrBufferTooSmall}
	}
	return &CodecError{Op: op, Err: fmt.Errorf("%w: %v", ErrEncoding, err)}
}
