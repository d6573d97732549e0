package main

import (
	"context"
	"fmt"

	"github.com/danmuck/nrfrpc/internal/bt"
	"github.com/spf13/cobra"
)

// advFlags are the advertising parameters shared by advertise and encode advertise.
type advFlags struct {
	name        string
	options     uint32
	intervalMin uint32
	intervalMax uint32
	flags       uint8
}

func (a *advFlags) bind(cmd *cobra.Command) {
	def := bt.ConnectableAdvParam()
	f := cmd.Flags()
	f.StringVarP(&a.name, "name", "n", "Nordic_PS", "complete local name sent in the scan response")
	f.Uint32Var(&a.options, "options", def.Options, "bt_le_adv_param options bitmask")
	f.Uint32Var(&a.intervalMin, "interval-min", def.IntervalMin, "minimum advertising interval (0.625 ms units)")
	f.Uint32Var(&a.intervalMax, "interval-max", def.IntervalMax, "maximum advertising interval (0.625 ms units)")
	f.Uint8Var(&a.flags, "flags", bt.LEADGeneral|bt.LEADNoBREDR, "advertising flags byte")
}

func (a *advFlags) build() (bt.AdvParam, []bt.Data, []bt.Data) {
	param := bt.ConnectableAdvParam()
	param.Options = a.options
	param.IntervalMin = a.intervalMin
	param.IntervalMax = a.intervalMax
	ad := []bt.Data{bt.FlagsData(a.flags)}
	var sd []bt.Data
	if a.name != "" {
		sd = append(sd, bt.NameCompleteData(a.name))
	}
	return param, ad, sd
}

func enableCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Call bt_enable on the peer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBle(cmd, opts, func(ctx context.Context, ble *bt.Ble) error {
				code, err := ble.Enable(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "bt_enable: %d\n", code)
				return nil
			})
		},
	}
}

func advertiseCmd(opts *options) *cobra.Command {
	adv := &advFlags{}
	cmd := &cobra.Command{
		Use:   "advertise",
		Short: "Call bt_le_adv_start on the peer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			param, ad, sd := adv.build()
			return withBle(cmd, opts, func(ctx context.Context, ble *bt.Ble) error {
				code, err := ble.AdvStart(ctx, param, ad, sd)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "bt_le_adv_start: %d\n", code)
				return nil
			})
		},
	}
	adv.bind(cmd)
	return cmd
}
