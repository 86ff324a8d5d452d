package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/account-hygiene/internal/nerdgraph"
	"github.com/ignite/account-hygiene/internal/pkg/logger"
)

// NewGrantsCmd creates the grants command.
func NewGrantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grants",
		Short: "Create an admin group and grant it access to each account",
		Long: `Grants creates a user management group in the Default authentication
domain and grants it a role on every account in the IDs file, so one
group of operators can administer all accounts slated for deletion.`,
		Args: cobra.NoArgs,
		RunE: runGrantsCmd,
	}

	cmd.Flags().String("ids", "", "CSV file of account IDs (required)")
	_ = cmd.MarkFlagRequired("ids")
	cmd.Flags().String("group-name", "NrDeletionGroup", "Display name for the created group")
	cmd.Flags().String("role", nerdgraph.DefaultRoleID, "Role ID to grant on each account")

	return cmd
}

// runGrantsCmd executes the grants command.
func runGrantsCmd(cmd *cobra.Command, args []string) error {
	client, err := newNerdGraphClient(cmd)
	if err != nil {
		return err
	}

	idsPath, _ := cmd.Flags().GetString("ids")
	accountIDs, err := nerdgraph.ReadAccountIDsCSV(idsPath)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	authDomainID, err := client.DefaultAuthDomainID(ctx)
	if err != nil {
		return err
	}

	groupName, _ := cmd.Flags().GetString("group-name")
	groupID, err := client.CreateGroup(ctx, authDomainID, groupName)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created group %q (%s)\n", groupName, groupID)

	roleID, _ := cmd.Flags().GetString("role")
	granted := 0
	for _, accountID := range accountIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := client.GrantAccess(ctx, groupID, accountID, roleID); err != nil {
			logger.Error("grant failed", "account_id", accountID, "error", err.Error())
			continue
		}
		granted++
		fmt.Fprintf(out, "Access granted for account %d\n", accountID)
	}

	fmt.Fprintf(out, "\nGranted access to %d of %d account(s)\n", granted, len(accountIDs))
	return nil
}
