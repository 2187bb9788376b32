package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wayfinder",
	Short: "Wayfinder is a navigation stack engine with a deterministic simulator",
	Long: `Wayfinder reconciles declarative navigation paths against a stack of
destinations, drives their transitions and lifecycle, and adapts the layout
to the window. The CLI runs scripted scenarios, manages persisted stacks and
serves an HTTP inspector.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "wayfinder.yaml", "Configuration file (YAML or TOML); a missing file means defaults")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging of navigation events")
}

func globalFlags(cmd *cobra.Command) (configPath string, debug bool) {
	configPath, _ = cmd.Flags().GetString("config")
	debug, _ = cmd.Flags().GetBool("debug")
	return configPath, debug
}
