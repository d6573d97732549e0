package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewCodecErrorClassifiesOverflow(t *testing.T) {
	err := NewCodecError("uint", fmt.Errorf("write: %w", ErrBufferTooSmall))
	var ce *CodecError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CodecError, got %T", err)
	}
	if !errors.Is(err, ErrBufferTooSmall) {
		t.Fatalf("expected ErrBufferTooSmall, got %v", err)
	}
	if errors.Is(err, ErrEncoding) {
		t.Fatalf("overflow must not classify as encoding failure")
	}
}

func TestNewCodecErrorClassifiesOther(t *testing.T) {
	err := NewCodecError("text", errors.New("boom"))
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
	if got := err.Error(); got != "protocol: text: protocol: encoding failure: boom" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestNewCodecErrorNilAndIdempotent(t *testing.T) {
	if NewCodecError("op", nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
	first := NewCodecError("inner", ErrBufferTooSmall)
	second := NewCodecError("outer", first)
	if first != second {
		t.Fatalf("expected existing CodecError to pass through unchanged")
	}
}
