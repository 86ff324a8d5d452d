package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/account-hygiene/internal/nerdgraph"
)

// NewAccountsCmd creates the accounts command.
func NewAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Export active managed account IDs per region",
		Long: `Accounts queries every managed account in the organization, drops
cancelled ones, and writes one headerless CSV of account IDs per region
(account_ids_<region>.csv). Those files feed the other nrprep commands.`,
		Args: cobra.NoArgs,
		RunE: runAccountsCmd,
	}

	cmd.Flags().StringP("out", "o", ".", "Output directory for the CSV files")

	return cmd
}

// runAccountsCmd executes the accounts command.
func runAccountsCmd(cmd *cobra.Command, args []string) error {
	client, err := newNerdGraphClient(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	accounts, err := client.ManagedAccounts(ctx)
	if err != nil {
		return err
	}

	active := nerdgraph.ActiveAccounts(accounts)
	if len(active) == 0 {
		return fmt.Errorf("no active accounts found, check your API key")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d active account(s) across regions %v (%d cancelled skipped)\n",
		len(active), nerdgraph.RegionCodes(active), len(accounts)-len(active))

	dir, _ := cmd.Flags().GetString("out")
	paths, err := nerdgraph.WriteAccountIDsCSV(dir, active)
	if err != nil {
		return err
	}
	for _, path := range paths {
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	return nil
}
