// Package transport moves raw nRF RPC packets between the host and the peer.
//
// The RPC client only ever writes whole packets and expects one read to return
// one packet. Byte-stream transports (UART, sockets) therefore keep reading after
// the first bytes arrive until the line has been idle for InterByteGap.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/danmuck/nrfrpc/internal/protocol"
)

// DefaultInterByteGap is the idle time that ends a packet on byte-stream transports.
const DefaultInterByteGap = 5 * time.Millisecond

// Transport is the byte-level capability the RPC client drives.
type Transport interface {
	// Write returns once every byte of p was accepted or an error occurred.
	Write(ctx context.Context, p []byte) error
	// Read places at most len(buf) bytes of one packet into buf.
	Read(ctx context.Context, buf []byte) (int, error)
	Close() error
}

func wrapErr(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s: %w", protocol.ErrTimeout, op, ctxErr)
		}
		return fmt.Errorf("%w: %s: %w", protocol.ErrTransport, op, ctxErr)
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %s: %w", protocol.ErrTimeout, op, err)
	}
	return fmt.Errorf("%w: %s: %w", protocol.ErrTransport, op, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
