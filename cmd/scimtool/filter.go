package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/account-hygiene/internal/scim"
)

// NewFilterCmd creates the filter command.
func NewFilterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter exported user metadata by account age",
		Long: `Filter reads a JSON export of user metadata, keeps users created more
than --days days ago, and writes their unique IDs as {"userIds": [...]}
for the bulk delete step. Records without an ID or a parseable creation
date are skipped and counted.`,
		Args: cobra.NoArgs,
		RunE: runFilterCmd,
	}

	cmd.Flags().StringP("input", "i", "", "JSON file with user metadata (required)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringP("output", "o", "", "Output path (default: <input>_filtered.json)")
	cmd.Flags().Int("days", 30, "Keep users created more than this many days ago")

	return cmd
}

// runFilterCmd executes the filter command.
func runFilterCmd(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		return fmt.Errorf("--days must be positive")
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	inputPath, _ := cmd.Flags().GetString("input")
	users, err := scim.LoadUserMetadata(inputPath)
	if err != nil {
		return err
	}

	ids, stats := scim.FilterOlderThan(users, cutoff)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Cutoff: created before %s (%d days ago)\n\n", cutoff.Format("2006-01-02"), days)
	fmt.Fprintf(out, "Total users in input:        %d\n", stats.TotalUsers)
	fmt.Fprintf(out, "Users with valid ID:         %d\n", stats.WithID)
	fmt.Fprintf(out, "Users with created date:     %d\n", stats.WithCreatedDate)
	fmt.Fprintf(out, "Older than cutoff:           %d\n", stats.OlderThanCutoff)
	fmt.Fprintf(out, "Too recent:                  %d\n", stats.TooRecent)
	fmt.Fprintf(out, "Missing ID:                  %d\n", stats.MissingID)
	fmt.Fprintf(out, "Missing created date:        %d\n", stats.MissingDate)
	fmt.Fprintf(out, "Duplicate IDs skipped:       %d\n", stats.DuplicateIDs)

	if len(ids) == 0 {
		fmt.Fprintln(out, "\nNo users matched the criteria.")
		return nil
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outputPath = base + "_filtered.json"
	}
	if err := scim.WriteUserIDs(outputPath, ids); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nWrote %d user ID(s) to %s\n", len(ids), outputPath)
	return nil
}
