package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/account-hygiene/internal/config"
	"github.com/ignite/account-hygiene/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [email]",
		Short: "Show past sweep runs",
		Long: `History lists recorded sweeps from the local history database. With an
email argument it shows every recorded removal attempt for that address.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return err
	}

	dir := cfg.History.Dir
	if dir == "" {
		dir = history.DefaultDir()
	}
	store, err := history.Open(dir, history.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run history recorded yet: %w", err)
	}
	defer store.Close() //nolint:errcheck

	out := cmd.OutOrStdout()

	if len(args) == 1 {
		results, err := store.ResultsForEmail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintf(out, "No recorded attempts for %s\n", args[0])
			return nil
		}
		for _, res := range results {
			fmt.Fprintf(out, "%-10s %s\n", res.Status, res.Message)
		}
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	fmt.Fprintf(out, "%-36s %-12s %-20s %7s %7s %7s\n", "RUN", "MODE", "STARTED", "TOTAL", "OK", "FAILED")
	for _, run := range runs {
		mode := run.Mode
		if run.DryRun {
			mode += " (dry)"
		}
		fmt.Fprintf(out, "%-36s %-12s %-20s %7d %7d %7d\n",
			run.ID, mode, run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Total, run.Successful, run.Failed)
	}
	return nil
}
