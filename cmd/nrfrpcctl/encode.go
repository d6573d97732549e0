package main

import (
	"encoding/hex"
	"fmt"

	"github.com/danmuck/nrfrpc/internal/bt"
	"github.com/danmuck/nrfrpc/internal/protocol/packet"
	"github.com/spf13/cobra"
)

func encodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print command packets as hex without contacting a peer",
	}
	cmd.AddCommand(encodeEnableCmd(), encodeAdvertiseCmd())
	return cmd
}

func bindGroup(cmd *cobra.Command, group *uint8) {
	cmd.Flags().Uint8VarP(group, "group", "g", packet.UnknownGroup, "bt_rpc group id used as source and destination group")
}

func encodeEnableCmd() *cobra.Command {
	var group uint8
	cmd := &cobra.Command{
		Use:   "enable",
		Short: "Encode bt_enable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pkt, err := bt.EncodeEnable(0, group, group)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(pkt))
			return nil
		},
	}
	bindGroup(cmd, &group)
	return cmd
}

func encodeAdvertiseCmd() *cobra.Command {
	var group uint8
	adv := &advFlags{}
	cmd := &cobra.Command{
		Use:   "advertise",
		Short: "Encode bt_le_adv_start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			param, ad, sd := adv.build()
			pkt, err := bt.EncodeAdvStart(0, group, group, param, ad, sd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(pkt))
			return nil
		},
	}
	bindGroup(cmd, &group)
	adv.bind(cmd)
	return cmd
}
