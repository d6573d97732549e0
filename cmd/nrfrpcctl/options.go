package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/danmuck/nrfrpc/internal/config"
	"github.com/danmuck/nrfrpc/internal/logging"
	"github.com/danmuck/nrfrpc/internal/transport"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// options holds the persistent connection flags shared by peer commands.
type options struct {
	configPath  string
	port        string
	baud        int
	network     string
	address     string
	readTimeout time.Duration
	logLevel    string
	metrics     bool
}

func (o *options) bind(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", "", "TOML config file")
	f.StringVarP(&o.port, "port", "p", "", "serial port of the peer")
	f.IntVarP(&o.baud, "baud", "b", transport.DefaultBaudRate, "serial baud rate")
	f.StringVar(&o.network, "network", "tcp", "socket network (tcp, unix)")
	f.StringVarP(&o.address, "address", "a", "", "socket address of the peer; selects the socket transport")
	f.DurationVarP(&o.readTimeout, "timeout", "t", 0, "read timeout per packet (0 waits forever)")
	f.StringVar(&o.logLevel, "log-level", "", "log level (trace, debug, info, warn, error, off)")
	f.BoolVar(&o.metrics, "metrics", false, "print client metrics to stderr on exit")
}

// resolve merges defaults, the config file, and explicitly set flags, in that
// order, and applies the resulting log settings.
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Transport.Kind = config.KindSerial
		cfg.Transport.Port = o.port
	}
	if flags.Changed("baud") {
		cfg.Transport.Baud = o.baud
	}
	if flags.Changed("address") {
		cfg.Transport.Kind = config.KindSocket
		cfg.Transport.Address = o.address
	}
	if flags.Changed("network") {
		cfg.Transport.Network = o.network
	}
	if flags.Changed("timeout") {
		cfg.Client.ReadTimeout = o.readTimeout
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if flags.Changed("metrics") {
		cfg.Metrics.Enabled = o.metrics
	}
	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}

	lc := cfg.Logging(logging.DefaultConfig(logging.ProfileRuntime))
	logging.ApplyEnvOverrides(&lc)
	if flags.Changed("log-level") {
		lc.Level, _ = logging.ParseLevel(o.logLevel)
	}
	logging.Apply(lc, os.Stderr)
	return cfg, nil
}

func openTransport(ctx context.Context, cfg config.Config) (transport.Transport, error) {
	switch cfg.Transport.Kind {
	case config.KindSerial:
		log.Debug().Str("port", cfg.Transport.Port).Int("baud", cfg.Transport.Baud).Msg("nrfrpcctl: opening serial port")
		return transport.OpenSerial(cfg.Serial())
	case config.KindSocket:
		return transport.Dial(ctx, cfg.Transport.Network, cfg.Transport.Address, cfg.Transport.InterByteGap)
	default:
		return nil, fmt.Errorf("unknown transport kind %q", cfg.Transport.Kind)
	}
}
