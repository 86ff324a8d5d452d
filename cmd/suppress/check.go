package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ignite/account-hygiene/internal/config"
	"github.com/ignite/account-hygiene/internal/pkg/logger"
	"github.com/ignite/account-hygiene/internal/secrets"
	"github.com/ignite/account-hygiene/internal/sendgrid"
	"github.com/ignite/account-hygiene/internal/suppression"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <email>",
		Short: "Show where an email address is suppressed",
		Long: `Check probes every configured account and suppression list for one
address and prints each entry found. Nothing is modified.`,
		Args: cobra.ExactArgs(1),
		RunE: runCheckCmd,
	}

	cmd.Flags().StringSlice("lists", []string{"all"}, "Suppression lists to check")
	cmd.Flags().Bool("no-verify-ssl", false, "Skip TLS certificate verification")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	email := args[0]
	if !suppression.ValidateEmail(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return err
	}

	setupLogging(cmd, cfg, "suppression_check")
	defer logger.CloseRunFile() //nolint:errcheck

	creds, err := secrets.Load(cfg.SendGrid.SecretsFile)
	if err != nil {
		return err
	}

	listNames, _ := cmd.Flags().GetStringSlice("lists")
	lists, err := sendgrid.ParseLists(listNames)
	if err != nil {
		return err
	}

	noVerify, _ := cmd.Flags().GetBool("no-verify-ssl")
	client := sendgrid.NewClient(cfg.SendGrid.BaseURL, cfg.SendGrid.Timeout(), !noVerify)

	out := cmd.OutOrStdout()
	found := 0
	for _, account := range creds.AccountNames() {
		apiKey := creds[account]
		for _, list := range lists {
			rec, ok, err := client.CheckEmail(cmd.Context(), account, apiKey, list, email)
			if err != nil {
				logger.Warn("check error", "account", account, "list", string(list), "error", err.Error())
				continue
			}
			if !ok {
				continue
			}
			found++
			fmt.Fprintf(out, "%-30s %-15s reason=%-40s created=%s\n",
				account, rec.List, rec.Reason, rec.Created)
		}
	}

	if found == 0 {
		fmt.Fprintf(out, "%s is not in any suppression lists across %d account(s).\n", email, len(creds))
	} else {
		fmt.Fprintf(out, "\n%s found in %d list(s).\n", email, found)
	}
	return nil
}
