package bt

import (
	"context"

	"github.com/danmuck/nrfrpc/internal/rpc"
	"github.com/danmuck/nrfrpc/internal/transport"
	"github.com/rs/zerolog/log"
)

// Ble issues GAP commands through an rpc.Client. Both source and destination
// group of every command are the client's bt_rpc group id.
type Ble struct {
	client *rpc.Client
}

// NewBle runs the RPC handshake over t and returns a ready Ble.
func NewBle(ctx context.Context, t transport.Transport, cfg rpc.Config) (*Ble, error) {
	client, err := rpc.New(ctx, t, cfg)
	if err != nil {
		return nil, err
	}
	return &Ble{client: client}, nil
}

// FromClient wraps an already initialized client.
func FromClient(client *rpc.Client) *Ble {
	return &Ble{client: client}
}

func (b *Ble) Client() *rpc.Client {
	return b.client
}

func (b *Ble) group() uint8 {
	id, ok := b.client.GroupID(rpc.GroupBtRPC)
	if !ok {
		log.Debug().Uint8("group", id).Msg("bt: bt_rpc group unresolved; sending with unknown id")
	}
	return id
}

// Enable calls bt_enable and returns the peer's result code.
func (b *Ble) Enable(ctx context.Context) (int32, error) {
	g := b.group()
	pkt, err := EncodeEnable(b.client.ContextID(), g, g)
	if err != nil {
		return 0, err
	}
	return b.client.SendCommand(ctx, pkt)
}

// AdvStart calls bt_le_adv_start and returns the peer's result code.
func (b *Ble) AdvStart(ctx context.Context, param AdvParam, ad, sd []Data) (int32, error) {
	g := b.group()
	pkt, err := EncodeAdvStart(b.client.ContextID(), g, g, param, ad, sd)
	if err != nil {
		return 0, err
	}
	return b.client.SendCommand(ctx, pkt)
}
