package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/account-hygiene/internal/nerdgraph"
	"github.com/ignite/account-hygiene/internal/pkg/logger"
)

// NewPoliciesCmd creates the policies command.
func NewPoliciesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "Delete alert policies in each account",
		Args:  cobra.NoArgs,
		RunE:  runPoliciesCmd,
	}

	cmd.Flags().String("ids", "", "CSV file of account IDs (required)")
	_ = cmd.MarkFlagRequired("ids")

	return cmd
}

// runPoliciesCmd executes the policies command.
func runPoliciesCmd(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	for _, accountID := range accountIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(out, "\nProcessing account %d\n", accountID)

		policies, err := client.Policies(ctx, accountID)
		if err != nil {
			logger.Error("listing policies failed", "account_id", accountID, "error", err.Error())
			continue
		}
		if len(policies) == 0 {
			fmt.Fprintln(out, "  No alert policies found.")
			continue
		}

		for _, policy := range policies {
			if err := client.DeletePolicy(ctx, accountID, policy.ID); err != nil {
				logger.Error("delete policy failed", "account_id", accountID, "policy_id", policy.ID, "error", err.Error())
				continue
			}
			fmt.Fprintf(out, "  Deleted policy %s (%s)\n", policy.ID, policy.Name)
		}
	}
	return nil
}
