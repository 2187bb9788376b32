package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder/internal/config"
	"github.com/aretw0/wayfinder/internal/scenario"
	"github.com/aretw0/wayfinder/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [scenario.yaml]...",
	Short: "Check the configuration and scenario files",
	Long:  `Parses the configuration and every scenario given, reporting unknown fields, operations and enum names.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := globalFlags(cmd)
		out := cmd.OutOrStdout()

		if _, err := config.Load(configPath); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s: ok\n", configPath)

		var failed int
		for _, path := range args {
			sc, err := scenario.Load(path)
			if err != nil {
				fmt.Fprintf(out, "%v\n", err)
				failed++
				continue
			}
			if err := validator.ValidateScenario(sc); err != nil {
				fmt.Fprintf(out, "%s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "%s: ok (%d steps, %d routes)\n", path, len(sc.Steps), len(sc.Routes))
			if unused := validator.UnusedRoutes(sc); len(unused) > 0 {
				fmt.Fprintf(out, "  unused routes: %s\n", strings.Join(unused, ", "))
			}
		}
		if failed > 0 {
			return fmt.Errorf("validation failed for %d file(s)", failed)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := globalFlags(cmd)
		format, _ := cmd.Flags().GetString("format")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		return config.Encode(cmd.OutOrStdout(), format, cfg)
	},
}

func init() {
	configCmd.Flags().String("format", "yaml", "Output format: yaml or toml")
	rootCmd.AddCommand(validateCmd, configCmd)
}
