package transport

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/danmuck/nrfrpc/internal/protocol"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

const (
	DefaultBaudRate     = 115200
	DefaultPollInterval = 50 * time.Millisecond
)

// SerialConfig describes a UART link to the peer.
type SerialConfig struct {
	Port         string
	BaudRate     int
	InterByteGap time.Duration
	PollInterval time.Duration
}

func (c SerialConfig) withDefaults() SerialConfig {
	if c.BaudRate <= 0 {
		c.BaudRate = DefaultBaudRate
	}
	if c.InterByteGap <= 0 {
		c.InterByteGap = DefaultInterByteGap
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// serialPort is the subset of serial.Port this transport uses.
type serialPort interface {
	io.ReadWriteCloser
	SetReadTimeout(t time.Duration) error
	ResetInputBuffer() error
}

// Serial carries packets over a UART. Reads poll so that ctx cancellation and
// deadlines are honoured.
type Serial struct {
	port serialPort
	cfg  SerialConfig
}

// OpenSerial opens cfg.Port as 8N1 at cfg.BaudRate and drops stale input.
func OpenSerial(cfg SerialConfig) (*Serial, error) {
	cfg = cfg.withDefaults()
	if strings.TrimSpace(cfg.Port) == "" {
		return nil, fmt.Errorf("%w: serial port required", protocol.ErrTransport)
	}
	port, err := serial.Open(cfg.Port, &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", protocol.ErrTransport, cfg.Port, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("%w: reset %s: %w", protocol.ErrTransport, cfg.Port, err)
	}
	log.Debug().Str("port", cfg.Port).Int("baud", cfg.BaudRate).Msg("transport.OpenSerial opened")
	return newSerial(port, cfg), nil
}

func newSerial(port serialPort, cfg SerialConfig) *Serial {
	return &Serial{port: port, cfg: cfg.withDefaults()}
}

func (s *Serial) Write(ctx context.Context, p []byte) error {
	for written := 0; written < len(p); {
		if err := ctx.Err(); err != nil {
			return wrapErr(ctx, "write", err)
		}
		n, err := s.port.Write(p[written:])
		if err != nil {
			return wrapErr(ctx, "write", err)
		}
		if n == 0 {
			return wrapErr(ctx, "write", io.ErrShortWrite)
		}
		written += n
	}
	return nil
}

func (s *Serial) Read(ctx context.Context, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	var n int
	for n == 0 {
		if err := ctx.Err(); err != nil {
			return 0, wrapErr(ctx, "read", err)
		}
		timeout := s.cfg.PollInterval
		if dl, ok := ctx.Deadline(); ok {
			remaining := time.Until(dl)
			if remaining <= 0 {
				return 0, fmt.Errorf("%w: read: %w", protocol.ErrTimeout, context.DeadlineExceeded)
			}
			timeout = min(timeout, remaining)
		}
		if err := s.port.SetReadTimeout(timeout); err != nil {
			return 0, wrapErr(ctx, "read", err)
		}
		m, err := s.port.Read(buf)
		if err != nil {
			return 0, wrapErr(ctx, "read", err)
		}
		n = m
	}
	if err := s.port.SetReadTimeout(s.cfg.InterByteGap); err != nil {
		return n, wrapErr(ctx, "read", err)
	}
	for n < len(buf) {
		m, err := s.port.Read(buf[n:])
		if err != nil {
			return n, wrapErr(ctx, "read", err)
		}
		if m == 0 {
			break
		}
		n += m
	}
	return n, nil
}

func (s *Serial) Close() error {
	return s.port.Close()
}
