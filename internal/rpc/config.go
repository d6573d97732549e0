package rpc

import (
	"fmt"
	"strings"
	"time"

	"github.com/danmuck/nrfrpc/internal/protocol/packet"
)

const (
	GroupBtRPC    = "bt_rpc"
	GroupRPCUtils = "rpc_utils"

	// maxGroups keeps every slot index below the unknown group sentinel.
	maxGroups = int(packet.UnknownGroup)
	// initOverhead is the header plus the version byte of an init packet.
	initOverhead = packet.HeaderSize + 1
)

// Group is one named RPC group and the id the peer assigned to it.
type Group struct {
	Name string
	ID   uint8
}

// Resolved reports whether the handshake assigned an id to the group.
func (g Group) Resolved() bool {
	return g.ID != packet.UnknownGroup
}

// Config defines the conversation parameters. Groups are registered in slice
// order and the slot index is sent as the source group id of each init packet.
type Config struct {
	Groups             []string
	ResponseBufferSize int
	// ReadTimeout bounds every read; zero waits as long as ctx allows.
	ReadTimeout time.Duration
	Observer    Observer
}

// DefaultConfig registers bt_rpc and rpc_utils with no read timeout.
func DefaultConfig() Config {
	return Config{
		Groups:             []string{GroupBtRPC, GroupRPCUtils},
		ResponseBufferSize: packet.ResponseBufferSize,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if len(c.Groups) == 0 {
		c.Groups = def.Groups
	}
	if c.ResponseBufferSize == 0 {
		c.ResponseBufferSize = def.ResponseBufferSize
	}
	if c.Observer == nil {
		c.Observer = nopObserver{}
	}
	return c
}

func (c Config) Validate() error {
	if len(c.Groups) == 0 {
		return fmt.Errorf("%w: no groups", ErrInvalidConfig)
	}
	if len(c.Groups) > maxGroups {
		return fmt.Errorf("%w: %d groups exceeds %d", ErrInvalidConfig, len(c.Groups), maxGroups)
	}
	seen := make(map[string]struct{}, len(c.Groups))
	for i, name := range c.Groups {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: groups[%d] missing name", ErrInvalidConfig, i)
		}
		if initOverhead+len(name) > packet.InitBufferSize {
			return fmt.Errorf("%w: groups[%d] name %q too long", ErrInvalidConfig, i, name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate group %q", ErrInvalidConfig, name)
		}
		seen[name] = struct{}{}
	}
	if c.ResponseBufferSize < packet.HeaderSize {
		return fmt.Errorf("%w: response buffer of %d bytes cannot hold a header", ErrInvalidConfig, c.ResponseBufferSize)
	}
	if c.ReadTimeout < 0 {
		return fmt.Errorf("%w: negative read timeout", ErrInvalidConfig)
	}
	return nil
}
