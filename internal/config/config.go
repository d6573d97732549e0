package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/nrfrpc/internal/logging"
	"github.com/danmuck/nrfrpc/internal/protocol/packet"
	"github.com/danmuck/nrfrpc/internal/rpc"
	"github.com/danmuck/nrfrpc/internal/transport"
	"github.com/rs/zerolog/log"
)

const (
	KindSerial = "serial"
	KindSocket = "socket"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Transport TransportConfig
	Client    ClientConfig
	Log       LogConfig
	Metrics   MetricsConfig
}

type TransportConfig struct {
	Kind         string
	Port         string
	Baud         int
	Network      string
	Address      string
	InterByteGap time.Duration
}

type ClientConfig struct {
	ReadTimeout    time.Duration
	ResponseBuffer int
	Groups         []string
}

type LogConfig struct {
	Level     string
	NoColor   bool
	Timestamp bool
}

type MetricsConfig struct {
	Enabled bool
}

type fileConfig struct {
	Transport struct {
		Kind         string `toml:"kind"`
		Port         string `toml:"port"`
		Baud         int    `toml:"baud"`
		Network      string `toml:"network"`
		Address      string `toml:"address"`
		InterByteGap string `toml:"inter_byte_gap"`
	} `toml:"transport"`
	Client struct {
		ReadTimeout    string      `toml:"read_timeout"`
		ResponseBuffer int         `toml:"response_buffer"`
		Groups         []fileGroup `toml:"groups"`
	} `toml:"client"`
	Log struct {
		Level     string `toml:"level"`
		NoColor   bool   `toml:"no_color"`
		Timestamp bool   `toml:"timestamp"`
	} `toml:"log"`
	Metrics struct {
		Enabled bool `toml:"enabled"`
	} `toml:"metrics"`
}

type fileGroup struct {
	Name string `toml:"name"`
}

func Default() Config {
	rc := rpc.DefaultConfig()
	return Config{
		Transport: TransportConfig{
			Kind:         KindSerial,
			Baud:         transport.DefaultBaudRate,
			Network:      "tcp",
			InterByteGap: transport.DefaultInterByteGap,
		},
		Client: ClientConfig{
			ReadTimeout:    rc.ReadTimeout,
			ResponseBuffer: rc.ResponseBufferSize,
			Groups:         rc.Groups,
		},
		Log: LogConfig{
			Level:     "info",
			Timestamp: true,
		},
	}
}

// Load reads path over Default. Only keys present in the file override defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	for _, key := range meta.Undecoded() {
		log.Warn().Str("path", path).Str("key", key.String()).Msg("config: unknown key ignored")
	}

	if meta.IsDefined("transport", "kind") {
		cfg.Transport.Kind = strings.ToLower(strings.TrimSpace(raw.Transport.Kind))
	}
	if meta.IsDefined("transport", "port") {
		cfg.Transport.Port = strings.TrimSpace(raw.Transport.Port)
	}
	if meta.IsDefined("transport", "baud") {
		cfg.Transport.Baud = raw.Transport.Baud
	}
	if meta.IsDefined("transport", "network") {
		cfg.Transport.Network = strings.TrimSpace(raw.Transport.Network)
	}
	if meta.IsDefined("transport", "address") {
		cfg.Transport.Address = strings.TrimSpace(raw.Transport.Address)
	}
	if meta.IsDefined("transport", "inter_byte_gap") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Transport.InterByteGap))
		if err != nil {
			return Config{}, fmt.Errorf("parse transport.inter_byte_gap: %w", err)
		}
		cfg.Transport.InterByteGap = d
	}

	if meta.IsDefined("client", "read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Client.ReadTimeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse client.read_timeout: %w", err)
		}
		cfg.Client.ReadTimeout = d
	}
	if meta.IsDefined("client", "response_buffer") {
		cfg.Client.ResponseBuffer = raw.Client.ResponseBuffer
	}
	if meta.IsDefined("client", "groups") {
		cfg.Client.Groups = normalizeGroups(raw.Client.Groups)
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.TrimSpace(raw.Log.Level)
	}
	if meta.IsDefined("log", "no_color") {
		cfg.Log.NoColor = raw.Log.NoColor
	}
	if meta.IsDefined("log", "timestamp") {
		cfg.Log.Timestamp = raw.Log.Timestamp
	}
	if meta.IsDefined("metrics", "enabled") {
		cfg.Metrics.Enabled = raw.Metrics.Enabled
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func normalizeGroups(in []fileGroup) []string {
	out := make([]string, 0, len(in))
	for _, g := range in {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

func Validate(cfg Config) error {
	t := cfg.Transport
	switch t.Kind {
	case KindSerial:
		if t.Port == "" {
			return fmt.Errorf("%w: transport.port required for serial", ErrInvalidConfig)
		}
		if t.Baud <= 0 {
			return fmt.Errorf("%w: transport.baud must be positive", ErrInvalidConfig)
		}
	case KindSocket:
		if t.Address == "" {
			return fmt.Errorf("%w: transport.address required for socket", ErrInvalidConfig)
		}
		switch t.Network {
		case "tcp", "tcp4", "tcp6", "unix":
		default:
			return fmt.Errorf("%w: unsupported transport.network %q", ErrInvalidConfig, t.Network)
		}
	default:
		return fmt.Errorf("%w: unknown transport.kind %q", ErrInvalidConfig, t.Kind)
	}
	if t.InterByteGap < 0 {
		return fmt.Errorf("%w: transport.inter_byte_gap must not be negative", ErrInvalidConfig)
	}
	if len(cfg.Client.Groups) == 0 {
		return fmt.Errorf("%w: client.groups must name at least one group", ErrInvalidConfig)
	}
	if cfg.Client.ResponseBuffer < packet.HeaderSize {
		return fmt.Errorf("%w: client.response_buffer must hold a %d byte header", ErrInvalidConfig, packet.HeaderSize)
	}
	if cfg.Client.ReadTimeout < 0 {
		return fmt.Errorf("%w: client.read_timeout must not be negative", ErrInvalidConfig)
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalidConfig, cfg.Log.Level)
	}
	if err := cfg.RPC(nil).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// RPC converts the client section. obs may be nil.
func (c Config) RPC(obs rpc.Observer) rpc.Config {
	return rpc.Config{
		Groups:             append([]string(nil), c.Client.Groups...),
		ResponseBufferSize: c.Client.ResponseBuffer,
		ReadTimeout:        c.Client.ReadTimeout,
		Observer:           obs,
	}
}

func (c Config) Serial() transport.SerialConfig {
	return transport.SerialConfig{
		Port:         c.Transport.Port,
		BaudRate:     c.Transport.Baud,
		InterByteGap: c.Transport.InterByteGap,
	}
}

// Logging applies the log section on top of base.
func (c Config) Logging(base logging.Config) logging.Config {
	if lvl, ok := logging.ParseLevel(c.Log.Level); ok {
		base.Level = lvl
	}
	base.NoColor = base.NoColor || c.Log.NoColor
	base.Timestamp = c.Log.Timestamp
	return base
}
