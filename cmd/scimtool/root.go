// Package main provides the entry point for the scimtool CLI.
package main

import (
	"bufio"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for scimtool.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scimtool",
		Short: "Bulk-manage New Relic users via SCIM",
		Long: `scimtool resolves user emails to SCIM IDs and deletes them in bulk,
and filters exported user metadata to users older than a threshold so
only long-inactive accounts are fed into a delete.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")

	cmd.AddCommand(NewDeleteCmd())
	cmd.AddCommand(NewFilterCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVersion returns the version string from build info.
func getVersion() string {
	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		if buildInfo.Main.Version != "" {
			return buildInfo.Main.Version
		}
	}
	return "(devel)"
}

// promptConfirm reads a yes/no answer from stdin.
func promptConfirm(prompt string) (bool, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "yes" || answer == "y", nil
}
