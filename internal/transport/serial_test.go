package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/danmuck/nrfrpc/internal/protocol"
	"github.com/danmuck/nrfrpc/internal/testutil/testlog"
)

// fakePort returns one scripted chunk per Read; an empty chunk models a read timeout.
type fakePort struct {
	chunks   [][]byte
	written  bytes.Buffer
	maxWrite int
	stalled  bool
	timeouts []time.Duration
	closed   bool
}

func (p *fakePort) Read(b []byte) (int, error) {
	if len(p.chunks) == 0 {
		return 0, nil
	}
	c := p.chunks[0]
	p.chunks = p.chunks[1:]
	return copy(b, c), nil
}

func (p *fakePort) Write(b []byte) (int, error) {
	if p.stalled {
		return 0, nil
	}
	if p.maxWrite > 0 && len(b) > p.maxWrite {
		b = b[:p.maxWrite]
	}
	return p.written.Write(b)
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func (p *fakePort) SetReadTimeout(t time.Duration) error {
	p.timeouts = append(p.timeouts, t)
	return nil
}

func (p *fakePort) ResetInputBuffer() error { return nil }

func TestSerialWriteHandlesShortWrites(t *testing.T) {
	testlog.Start(t)

	port := &fakePort{maxWrite: 3}
	s := newSerial(port, SerialConfig{})
	want := []byte{0x80, 0x00, 0xFF, 0x00, 0x00, 0x18, 0x1C, 0x18, 0x1C, 0xF6}
	if err := s.Write(context.Background(), want); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !bytes.Equal(port.written.Bytes(), want) {
		t.Fatalf("wrote % X want % X", port.written.Bytes(), want)
	}
}

func TestSerialWriteFailsWhenPortAcceptsNothing(t *testing.T) {
	testlog.Start(t)

	s := newSerial(&fakePort{stalled: true}, SerialConfig{})
	err := s.Write(context.Background(), []byte{0x80, 0x00})
	if !errors.Is(err, protocol.ErrTransport) || !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("expected transport short write, got %v", err)
	}
}

func TestSerialReadPollsThenReassembles(t *testing.T) {
	testlog.Start(t)

	port := &fakePort{chunks: [][]byte{{}, {}, {0x01, 0x00}, {0xFF, 0x00, 0x00}, {0x00}, {}}}
	s := newSerial(port, SerialConfig{InterByteGap: 2 * time.Millisecond, PollInterval: 10 * time.Millisecond})

	buf := make([]byte, 256)
	n, err := s.Read(context.Background(), buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []byte{0x01, 0x00, 0xFF, 0x00, 0x00, 0x00}
	if !bytes.Equal(buf[:n], want) {
		t.Fatalf("read % X want % X", buf[:n], want)
	}
	last := port.timeouts[len(port.timeouts)-1]
	if last != 2*time.Millisecond {
		t.Fatalf("expected gap timeout after first bytes, got %v", last)
	}
}

func TestSerialReadHonoursDeadline(t *testing.T) {
	testlog.Start(t)

	s := newSerial(&fakePort{}, SerialConfig{PollInterval: time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Millisecond)
	defer cancel()
	_, err := s.Read(ctx, make([]byte, 8))
	if !errors.Is(err, protocol.ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
}

func TestSerialClose(t *testing.T) {
	port := &fakePort{}
	if err := newSerial(port, SerialConfig{}).Close(); err != nil || !port.closed {
		t.Fatalf("close: err=%v closed=%v", err, port.closed)
	}
}

func TestOpenSerialRequiresPort(t *testing.T) {
	if _, err := OpenSerial(SerialConfig{}); !errors.Is(err, protocol.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}
