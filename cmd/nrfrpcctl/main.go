package main

import (
	"fmt"
	"os"

	"github.com/danmuck/nrfrpc/internal/logging"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logging.ConfigureRuntime()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "nrfrpcctl",
		Short: "Drive an nRF RPC peer over UART or a socket",
		Long: `nrfrpcctl registers RPC groups with an nRF RPC peer and issues
Bluetooth LE commands on it.

Examples:
  nrfrpcctl enable --port /dev/ttyACM0
  nrfrpcctl advertise --address 127.0.0.1:4000 --name Nordic_PS
  nrfrpcctl encode advertise --group 0
  nrfrpcctl config init nrfrpc.toml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.bind(root)

	root.AddCommand(
		enableCmd(opts),
		advertiseCmd(opts),
		encodeCmd(),
		configCmd(),
		versionCmd(),
	)
	return root
}
