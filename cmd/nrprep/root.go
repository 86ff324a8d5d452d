// Package main provides the entry point for the nrprep CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ignite/account-hygiene/internal/config"
	"github.com/ignite/account-hygiene/internal/nerdgraph"
	"github.com/ignite/account-hygiene/internal/pkg/logger"
)

// NewRootCmd creates the root command for nrprep.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nrprep",
		Short: "Prepare New Relic accounts for deletion",
		Long: `nrprep runs the account deletion prep workflow against NerdGraph:
exporting managed account IDs, stripping AI notification destinations,
channels, and alert policies, and granting a temporary group access to
every target account.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "", "Configuration file path")
	cmd.PersistentFlags().String("api-key", "", "New Relic User API key (overrides NEW_RELIC_API_KEY)")

	cmd.AddCommand(NewAccountsCmd())
	cmd.AddCommand(NewDestinationsCmd())
	cmd.AddCommand(NewChannelsCmd())
	cmd.AddCommand(NewPoliciesCmd())
	cmd.AddCommand(NewGrantsCmd())

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

// newNerdGraphClient builds a client from config, env, and flags.
func newNerdGraphClient(cmd *cobra.Command) (*nerdgraph.Client, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DEBUG)
	}
	logger.SetRedactPII(cfg.Logging.RedactPII)

	apiKey, _ := cmd.Flags().GetString("api-key")
	if apiKey == "" {
		apiKey = cfg.NerdGraph.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set --api-key or NEW_RELIC_API_KEY")
	}

	return nerdgraph.NewClient(cfg.NerdGraph.Endpoint, apiKey, cfg.NerdGraph.Timeout()), nil
}

// signalContext derives a context cancelled on SIGINT/SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
