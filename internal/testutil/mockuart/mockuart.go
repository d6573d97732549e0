// Package mockuart provides a scripted in-memory transport for tests. Writes are
// recorded; reads are served from a queue and return zero bytes once it drains.
package mockuart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/danmuck/nrfrpc/internal/protocol"
)

type reply struct {
	data []byte
	err  error
}

type UART struct {
	mu       sync.Mutex
	sent     [][]byte
	replies  []reply
	writeErr error
	closed   bool
}

func New() *UART {
	return &UART{}
}

// QueueRead appends one packet that a later Read will return.
func (u *UART) QueueRead(data []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.replies = append(u.replies, reply{data: append([]byte(nil), data...)})
}

// QueueReadError makes the next unserved Read fail with err.
func (u *UART) QueueReadError(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.replies = append(u.replies, reply{err: err})
}

// FailWrites makes every following Write fail with err. A nil err restores writes.
func (u *UART) FailWrites(err error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.writeErr = err
}

func (u *UART) Sent() [][]byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([][]byte, len(u.sent))
	for i, p := range u.sent {
		out[i] = append([]byte(nil), p...)
	}
	return out
}

func (u *UART) ClearSent() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.sent = nil
}

func (u *UART) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.replies)
}

func (u *UART) Closed() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.closed
}

func (u *UART) Write(ctx context.Context, p []byte) error {
	if err := ctxErr(ctx, "write"); err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return fmt.Errorf("%w: write: closed", protocol.ErrTransport)
	}
	if u.writeErr != nil {
		return u.writeErr
	}
	u.sent = append(u.sent, append([]byte(nil), p...))
	return nil
}

func (u *UART) Read(ctx context.Context, buf []byte) (int, error) {
	if err := ctxErr(ctx, "read"); err != nil {
		return 0, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return 0, fmt.Errorf("%w: read: closed", protocol.ErrTransport)
	}
	if len(u.replies) == 0 {
		return 0, nil
	}
	r := u.replies[0]
	u.replies = u.replies[1:]
	if r.err != nil {
		return 0, r.err
	}
	return copy(buf, r.data), nil
}

func (u *UART) Close() error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.closed = true
	return nil
}

func ctxErr(ctx context.Context, op string) error {
	err := ctx.Err()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %s: %w", protocol.ErrTimeout, op, err)
	default:
		return fmt.Errorf("%w: %s: %w", protocol.ErrTransport, op, err)
	}
}
