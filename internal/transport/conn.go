package transport

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog/log"
)

// Conn carries packets over a stream socket, e.g. a TCP bridge to a UART or an
// emulator's serial socket.
type Conn struct {
	conn net.Conn
	gap  time.Duration
}

func NewConn(conn net.Conn, interByteGap time.Duration) *Conn {
	if interByteGap <= 0 {
		interByteGap = DefaultInterByteGap
	}
	return &Conn{conn: conn, gap: interByteGap}
}

// Dial connects to address on network ("tcp", "unix").
func Dial(ctx context.Context, network, address string, interByteGap time.Duration) (*Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, wrapErr(ctx, "dial", err)
	}
	log.Debug().Str("network", network).Str("address", address).Msg("transport.Dial connected")
	return NewConn(conn, interByteGap), nil
}

func (c *Conn) Write(ctx context.Context, p []byte) error {
	stop := watchDeadline(ctx, c.conn.SetWriteDeadline)
	defer stop()
	if _, err := c.conn.Write(p); err != nil {
		return wrapErr(ctx, "write", err)
	}
	return nil
}

func (c *Conn) Read(ctx context.Context, buf []byte) (int, error) {
	stop := watchDeadline(ctx, c.conn.SetReadDeadline)
	n, err := c.conn.Read(buf)
	stop()
	if err != nil {
		return n, wrapErr(ctx, "read", err)
	}
	defer func() { _ = c.conn.SetReadDeadline(time.Time{}) }()
	for n < len(buf) && ctx.Err() == nil {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.gap))
		m, err := c.conn.Read(buf[n:])
		n += m
		if err != nil {
			if isTimeout(err) {
				break
			}
			return n, wrapErr(ctx, "read", err)
		}
	}
	return n, nil
}

func (c *Conn) Close() error {
	return c.conn.Close()
}

// watchDeadline applies ctx's deadline to the socket and interrupts a blocked
// operation when ctx is cancelled. The returned func must be called once the
// operation returns.
func watchDeadline(ctx context.Context, set func(time.Time) error) func() {
	if dl, ok := ctx.Deadline(); ok {
		_ = set(dl)
	} else {
		_ = set(time.Time{})
	}
	stop := context.AfterFunc(ctx, func() {
		_ = set(time.Now())
	})
	return func() { stop() }
}
