package rpc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danmuck/nrfrpc/internal/protocol"
	"github.com/danmuck/nrfrpc/internal/protocol/packet"
	"github.com/danmuck/nrfrpc/internal/protocol/value"
	"github.com/danmuck/nrfrpc/internal/transport"
	"github.com/rs/zerolog/log"
)

// contextID is the only conversation context this client opens.
const contextID uint8 = 0

// Client drives one conversation over a transport. It holds no lock: callers
// serialize access and keep at most one command in flight.
type Client struct {
	t      transport.Transport
	cfg    Config
	obs    Observer
	groups []Group
	state  State
}

// New registers every configured group with the peer and returns a ready client.
// Init replies are matched to groups by position; a missing or malformed reply
// leaves that group at the unknown id without failing construction.
func New(ctx context.Context, t transport.Transport, cfg Config) (*Client, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil transport", ErrInvalidConfig)
	}
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		t:      t,
		cfg:    cfg,
		obs:    cfg.Observer,
		groups: make([]Group, len(cfg.Groups)),
		state:  StateUninitialized,
	}
	for i, name := range cfg.Groups {
		c.groups[i] = Group{Name: name, ID: packet.UnknownGroup}
	}
	if err := c.handshake(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) handshake(ctx context.Context) error {
	c.state = StateAwaitingGroupRegistrations
	for i, g := range c.groups {
		buf := packet.NewBuffer(packet.InitBufferSize)
		if err := packet.EncodeInit(buf, uint8(i), g.Name); err != nil {
			return c.fault("init", err)
		}
		if err := c.write(ctx, buf.Bytes()); err != nil {
			return c.fault("init", err)
		}
	}

	// One read may carry several back-to-back init replies; each slot consumes
	// its own reply from pending before the transport is read again.
	resp := make([]byte, c.cfg.ResponseBufferSize)
	var pending []byte
	for i, g := range c.groups {
		if len(pending) == 0 {
			n, err := c.read(ctx, resp)
			if err != nil {
				return c.fault("init", err)
			}
			pending = resp[:n]
		}
		var reply []byte
		reply, pending = packet.SplitInit(pending, g.Name)
		c.register(i, reply)
	}
	if len(pending) > 0 {
		log.Warn().Hex("packet", pending).Msg("rpc: unexpected bytes after init replies dropped")
	}
	c.state = StateReady
	log.Debug().Interface("groups", c.groups).Msg("rpc: handshake complete")
	return nil
}

func (c *Client) register(slot int, b []byte) {
	g := &c.groups[slot]
	if len(b) < packet.HeaderSize || packet.Type(b[0]) != packet.TypeInit {
		log.Warn().
			Str("group", g.Name).
			Int("len", len(b)).
			Hex("packet", b).
			Msg("rpc: no init reply for group; id left unknown")
		c.obs.GroupRegistered(g.Name, g.ID, false)
		return
	}
	g.ID = b[4]
	payload := b[packet.HeaderSize:]
	if _, ok := packet.InitNames(payload, g.Name); !ok {
		if init, err := packet.ParseInit(payload); err == nil && init.GroupName != "" {
			log.Warn().
				Str("group", g.Name).
				Str("peer_group", init.GroupName).
				Uint8("id", g.ID).
				Msg("rpc: init reply names a different group")
		}
	}
	c.obs.GroupRegistered(g.Name, g.ID, true)
}

// SendCommand writes one command packet and decodes the integer return value of
// the response. Short or non-response replies fail with ErrInvalidResponse; an
// error report additionally carries a *RemoteError.
func (c *Client) SendCommand(ctx context.Context, pkt []byte) (int32, error) {
	switch c.state {
	case StateReady:
	case StateFaulted:
		return 0, ErrFaulted
	default:
		return 0, fmt.Errorf("%w: state %s", ErrNotReady, c.state)
	}

	group, cmd := c.describe(pkt)
	start := time.Now()
	v, err := c.exchange(ctx, pkt)
	c.obs.CommandCompleted(group, cmd, ResultOf(err), time.Since(start))
	return v, err
}

func (c *Client) exchange(ctx context.Context, pkt []byte) (int32, error) {
	if err := c.write(ctx, pkt); err != nil {
		return 0, c.fault("command", err)
	}
	resp := make([]byte, c.cfg.ResponseBufferSize)
	n, err := c.read(ctx, resp)
	if err != nil {
		return 0, c.fault("command", err)
	}
	resp = resp[:n]
	if n < packet.HeaderSize {
		return 0, fmt.Errorf("%w: %d byte response", protocol.ErrInvalidResponse, n)
	}

	typ := packet.Type(resp[0] & packet.ContextMask)
	payload := resp[packet.HeaderSize:]
	if typ != packet.TypeResponse {
		if typ == packet.TypeErrorReport {
			if code, derr := packet.DecodeErrorReport(payload); derr == nil {
				return 0, fmt.Errorf("%w: %w", protocol.ErrInvalidResponse, &RemoteError{Code: code})
			}
		}
		return 0, fmt.Errorf("%w: unexpected %s packet", protocol.ErrInvalidResponse, typ)
	}
	return value.DecodeInt32(payload)
}

func (c *Client) write(ctx context.Context, p []byte) error {
	log.Debug().Hex("tx", p).Msg("rpc: write")
	if err := c.t.Write(ctx, p); err != nil {
		return transportError(err)
	}
	c.obs.BytesTransferred(DirectionTx, len(p))
	return nil
}

func (c *Client) read(ctx context.Context, buf []byte) (int, error) {
	if c.cfg.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.ReadTimeout)
		defer cancel()
	}
	n, err := c.t.Read(ctx, buf)
	if err != nil {
		return 0, transportError(err)
	}
	log.Debug().Hex("rx", buf[:n]).Msg("rpc: read")
	c.obs.BytesTransferred(DirectionRx, n)
	return n, nil
}

func (c *Client) fault(op string, err error) error {
	c.state = StateFaulted
	log.Error().Err(err).Str("op", op).Msg("rpc: client faulted")
	return err
}

// describe labels a command packet for observers without failing the call.
func (c *Client) describe(pkt []byte) (string, uint8) {
	h, err := packet.DecodeHeader(pkt)
	if err != nil {
		return "unknown", 0
	}
	for _, g := range c.groups {
		if g.Resolved() && g.ID == h.DstGroup {
			return g.Name, h.CommandID
		}
	}
	return "unknown", h.CommandID
}

// transportError keeps timeout and transport kinds intact and classifies
// anything else a transport returns as a transport failure.
func transportError(err error) error {
	if errors.Is(err, protocol.ErrTimeout) || errors.Is(err, protocol.ErrTransport) {
		return err
	}
	return fmt.Errorf("%w: %w", protocol.ErrTransport, err)
}

// GroupID returns the id assigned to name and whether the peer resolved it.
func (c *Client) GroupID(name string) (uint8, bool) {
	for _, g := range c.groups {
		if g.Name == name {
			return g.ID, g.Resolved()
		}
	}
	return packet.UnknownGroup, false
}

func (c *Client) Groups() []Group {
	return append([]Group(nil), c.groups...)
}

func (c *Client) ContextID() uint8 {
	return contextID
}

func (c *Client) State() State {
	return c.state
}
