package main

import (
	"context"
	"io"

	"github.com/danmuck/nrfrpc/internal/bt"
	"github.com/danmuck/nrfrpc/internal/observability"
	"github.com/danmuck/nrfrpc/internal/rpc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// withBle opens the configured transport, runs the handshake, and calls fn with a
// ready Ble. The transport is closed when fn returns.
func withBle(cmd *cobra.Command, opts *options, fn func(ctx context.Context, ble *bt.Ble) error) error {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var obs rpc.Observer
	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		m, err := observability.NewMetrics(reg)
		if err != nil {
			return err
		}
		obs = m
		defer dumpMetrics(cmd.ErrOrStderr(), reg)
	}

	t, err := openTransport(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := t.Close(); err != nil {
			log.Warn().Err(err).Msg("nrfrpcctl: close transport")
		}
	}()

	ble, err := bt.NewBle(ctx, t, cfg.RPC(obs))
	if err != nil {
		return err
	}
	for _, g := range ble.Client().Groups() {
		log.Info().Str("group", g.Name).Uint8("id", g.ID).Bool("resolved", g.Resolved()).Msg("nrfrpcctl: group")
	}
	return fn(ctx, ble)
}

func dumpMetrics(w io.Writer, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		log.Warn().Err(err).Msg("nrfrpcctl: gather metrics")
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			log.Warn().Err(err).Msg("nrfrpcctl: write metrics")
			return
		}
	}
}
