package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder/internal/cli"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Run a navigation scenario on the simulator",
	Long: `Runs the steps of a scenario file against a navigator wired to a virtual
clock, printing the lifecycle calls of every step and the final stacks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, debug := globalFlags(cmd)
		report, _ := cmd.Flags().GetBool("report")
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		jsonMode, _ := cmd.Flags().GetBool("json")
		quiet, _ := cmd.Flags().GetBool("quiet")

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		return cli.RunSimulate(sigCtx, cli.SimulateOptions{
			ScenarioPath: args[0],
			ConfigPath:   configPath,
			Debug:        debug,
			Report:       report,
			Mermaid:      mermaid,
			JSON:         jsonMode,
			Quiet:        quiet,
		}, cmd.OutOrStdout())
	},
}

func init() {
	simulateCmd.Flags().Bool("report", false, "Render a markdown report instead of the step trace")
	simulateCmd.Flags().Bool("mermaid", false, "Append a mermaid diagram of the final containers")
	simulateCmd.Flags().Bool("json", false, "Write the report as JSON")
	simulateCmd.Flags().BoolP("quiet", "q", false, "Only report failures through the exit code")
	rootCmd.AddCommand(simulateCmd)
}
