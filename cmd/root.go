package cmd

import (
	"fmt"
	"os"

	"github.com/ValentinKolb/dWire/cmd/bench"
	"github.com/ValentinKolb/dWire/cmd/inspect"
	"github.com/ValentinKolb/dWire/cmd/send"
	"github.com/ValentinKolb/dWire/cmd/serve"
	"github.com/ValentinKolb/dWire/cmd/util"
	"github.com/ValentinKolb/dWire/lib/openwire/marshal"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "dwire",
		Short: "OpenWire codec and message transport",
		Long: fmt.Sprintf(`dWire (v%s)

An implementation of the OpenWire binary protocol (versions %d-%d) written in Go,
with the tight and loose encodings, the object cache, wire format negotiation
and a framed tcp/unix transport.`, Version, marshal.MinVersion, marshal.MaxVersion),
		SilenceUsage: true,
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of dWire",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("dWire v%s (OpenWire %d-%d)\n", Version, marshal.MinVersion, marshal.MaxVersion)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(send.SendCmd)
	RootCmd.AddCommand(inspect.InspectCmd)
	RootCmd.AddCommand(bench.BenchCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "transport"
	RootCmd.PersistentFlags().String(key, "tcp", util.WrapString("transport to use (tcp, unix)"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("level at which logs will be output (debug, info, warn, error)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
