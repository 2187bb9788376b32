package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/wayfinder/internal/cli"
)

var stackCmd = &cobra.Command{
	Use:   "stack",
	Short: "Manage persisted navigation stacks",
	Long:  `List, inspect, and remove the recovery records kept by the configured store.`,
}

func stackOptions(cmd *cobra.Command) cli.StackOptions {
	configPath, debug := globalFlags(cmd)
	return cli.StackOptions{ConfigPath: configPath, Debug: debug}
}

var stackLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all persisted stacks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := cli.ListStacks(cmd.Context(), stackOptions(cmd))
		if err != nil {
			return fmt.Errorf("listing stacks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No persisted stacks found.")
			return nil
		}
		fmt.Fprintln(out, "Persisted Stacks:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var stackInspectCmd = &cobra.Command{
	Use:   "inspect <container-id>",
	Short: "Print the recovery records of a stack",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := cli.InspectStack(cmd.Context(), stackOptions(cmd), args[0])
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var stackRmCmd = &cobra.Command{
	Use:   "rm <container-id>...",
	Short: "Remove one or more stacks",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := stackOptions(cmd)
		out := cmd.OutOrStdout()
		var failed int
		for _, id := range args {
			if err := cli.RemoveStack(cmd.Context(), opts, id); err != nil {
				fmt.Fprintf(out, "Error removing '%s': %v\n", id, err)
				failed++
				continue
			}
			fmt.Fprintf(out, "Removed stack '%s'\n", id)
		}
		if failed > 0 {
			return fmt.Errorf("%d stack(s) could not be removed", failed)
		}
		return nil
	},
}

func init() {
	stackCmd.AddCommand(stackLsCmd, stackInspectCmd, stackRmCmd)
	rootCmd.AddCommand(stackCmd)
}
