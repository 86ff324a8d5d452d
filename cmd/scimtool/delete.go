package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ignite/account-hygiene/internal/config"
	"github.com/ignite/account-hygiene/internal/pkg/logger"
	"github.com/ignite/account-hygiene/internal/scim"
	"github.com/ignite/account-hygiene/internal/suppression"
)

// NewDeleteCmd creates the delete command.
func NewDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete SCIM users by email or ID",
		Long: `Delete removes users through the SCIM API after confirmation.

With --csv, each email is resolved to a SCIM user ID first; emails
absent from the authentication domain are reported and skipped. With
--ids, a {"userIds": [...]} file (as written by scimtool filter) is
deleted directly.`,
		Args: cobra.NoArgs,
		RunE: runDeleteCmd,
	}

	cmd.Flags().StringP("csv", "f", "", "CSV file of user emails")
	cmd.Flags().String("ids", "", `JSON file of user IDs ({"userIds": [...]})`)
	cmd.MarkFlagsMutuallyExclusive("csv", "ids")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// runDeleteCmd executes the delete command.
func runDeleteCmd(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DEBUG)
	}
	logger.SetRedactPII(cfg.Logging.RedactPII)

	if cfg.SCIM.BearerToken == "" {
		return fmt.Errorf("no SCIM bearer token: set SCIM_BEARER_TOKEN")
	}
	client := scim.NewClient(cfg.SCIM.BaseURL, cfg.SCIM.BearerToken, cfg.SCIM.Timeout())

	csvPath, _ := cmd.Flags().GetString("csv")
	idsPath, _ := cmd.Flags().GetString("ids")
	if csvPath == "" && idsPath == "" {
		return fmt.Errorf("one of --csv or --ids is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()

	var userIDs []string
	if idsPath != "" {
		userIDs, err = scim.ReadUserIDs(idsPath)
		if err != nil {
			return err
		}
	} else {
		emails, err := suppression.ReadEmailsCSV(csvPath)
		if err != nil {
			return err
		}

		// Resolve every email first so the confirmation covers the real count.
		for _, email := range emails {
			id, found, err := client.FindUserID(ctx, email)
			if err != nil {
				logger.Error("lookup failed", "email", email, "error", err.Error())
				continue
			}
			if !found {
				fmt.Fprintf(out, "User %s not found in this authentication domain\n", email)
				continue
			}
			userIDs = append(userIDs, id)
		}
	}

	if len(userIDs) == 0 {
		fmt.Fprintln(out, "No users to delete.")
		return nil
	}

	if autoYes, _ := cmd.Flags().GetBool("yes"); !autoYes {
		ok, err := promptConfirm(fmt.Sprintf("Delete %d user(s)? (yes/no): ", len(userIDs)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Operation cancelled by user.")
			return nil
		}
	}

	deleted := 0
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := client.DeleteUser(ctx, userID); err != nil {
			logger.Error("delete failed", "user_id", userID, "error", err.Error())
			continue
		}
		deleted++
		fmt.Fprintf(out, "Deleted user %s\n", userID)
	}

	fmt.Fprintf(out, "\nDeleted %d of %d user(s)\n", deleted, len(userIDs))
	return nil
}
