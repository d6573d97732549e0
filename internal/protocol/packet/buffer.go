package packet

import (
	"fmt"

	"github.com/danmuck/nrfrpc/internal/protocol"
)

const (
	// InitBufferSize bounds init packets: header, version, group name.
	InitBufferSize = 64
	// CommandBufferSize bounds command packets built by the command encoders.
	CommandBufferSize = 256
	// ResponseBufferSize bounds a single received packet.
	ResponseBufferSize = 256
)

// Buffer is a bounded append-only byte buffer. Writes that would exceed the
// capacity fail with protocol.ErrBufferTooSmall and leave the buffer unchanged.
type Buffer struct {
	buf []byte
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	return &Buffer{buf: make([]byte, 0, capacity)}
}

func (b *Buffer) Write(p []byte) (int, error) {
	if len(p) > b.Available() {
		return 0, fmt.Errorf("write %d bytes with %d available: %w", len(p), b.Available(), protocol.ErrBufferTooSmall)
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *Buffer) WriteByte(c byte) error {
	if b.Available() < 1 {
		return fmt.Errorf("write 1 byte with 0 available: %w", protocol.ErrBufferTooSmall)
	}
	b.buf = append(b.buf, c)
	return nil
}

// Bytes returns the written bytes. The slice aliases the buffer until the next Reset.
func (b *Buffer) Bytes() []byte { return b.buf }

func (b *Buffer) Len() int { return len(b.buf) }

func (b *Buffer) Cap() int { return cap(b.buf) }

func (b *Buffer) Available() int { return cap(b.buf) - len(b.buf) }

func (b *Buffer) Reset() { b.buf = b.buf[:0] }
