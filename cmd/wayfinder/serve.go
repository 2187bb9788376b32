package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder/internal/cli"
)

var serveCmd = &cobra.Command{
	Use:   "serve [scenario.yaml]",
	Short: "Start the HTTP inspector",
	Long: `Starts a simulated navigator and exposes it over HTTP: stacks can be
inspected and driven, events streamed over SSE and metrics scraped. A scenario
file supplies routes and warm-up steps.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, debug := globalFlags(cmd)
		addr, _ := cmd.Flags().GetString("addr")
		tick, _ := cmd.Flags().GetDuration("tick")

		opts := cli.ServeOptions{
			ConfigPath: configPath,
			Addr:       addr,
			Debug:      debug,
			Tick:       tick,
		}
		if len(args) > 0 {
			opts.ScenarioPath = args[0]
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()
		return cli.RunServe(sigCtx, opts, cmd.OutOrStdout())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr from the config)")
	serveCmd.Flags().Duration("tick", 16*time.Millisecond, "Advance virtual time in real time at this interval; 0 disables")
	rootCmd.AddCommand(serveCmd)
}
