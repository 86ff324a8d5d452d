package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ignite/account-hygiene/internal/config"
	"github.com/ignite/account-hygiene/internal/export"
	"github.com/ignite/account-hygiene/internal/history"
	"github.com/ignite/account-hygiene/internal/pkg/logger"
	"github.com/ignite/account-hygiene/internal/secrets"
	"github.com/ignite/account-hygiene/internal/sendgrid"
	"github.com/ignite/account-hygiene/internal/suppression"
)

// NewSweepCmd creates the sweep command.
func NewSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove email addresses from suppression lists",
		Long: `Sweep removes addresses from suppression lists across every configured
SendGrid account. Exactly one of --email, --csv, or --domain selects the
targets.

Addresses with no suppression entries anywhere are skipped before any
confirmation. Domain sweeps always export full findings to a CSV first,
so the detail file exists even if you decline the prompt.

Examples:
  # Remove one address everywhere
  suppress sweep --email bounced@example.com

  # Remove every address in a CSV (first column, optional header)
  suppress sweep --csv offboarded.csv --delay 200ms

  # Preview a domain-wide removal without deleting anything
  suppress sweep --domain oldcorp.com --dry-run

  # Only specific lists
  suppress sweep --email x@example.com --lists bounces,blocks`,
		Args: cobra.NoArgs,
		RunE: runSweepCmd,
	}

	cmd.Flags().StringP("email", "e", "", "Single email address to remove")
	cmd.Flags().StringP("csv", "f", "", "CSV file of email addresses to remove")
	cmd.Flags().StringP("domain", "d", "", "Remove every suppressed address under this domain")
	cmd.Flags().Bool("dry-run", false, "Report what would be removed without deleting anything")
	cmd.Flags().Duration("delay", 100*time.Millisecond, "Pause between processed emails")
	cmd.Flags().Int("batch-size", 50, "Progress reporting batch size")
	cmd.Flags().Bool("no-confirm", false, "Skip the confirmation prompt")
	cmd.Flags().Bool("no-verify-ssl", false, "Skip TLS certificate verification")
	cmd.Flags().StringSlice("lists", []string{"all"}, "Suppression lists to act on (bounces, blocks, spam_reports, invalid_emails, global, all)")
	cmd.Flags().String("export-dir", "", "Directory for domain-scan export files")
	cmd.Flags().Bool("no-history", false, "Skip recording this run in the history database")

	return cmd
}

// runSweepCmd executes the sweep command.
func runSweepCmd(cmd *cobra.Command, args []string) error {
	runCfg, err := buildSweepConfig(cmd)
	if err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return err
	}

	setupLogging(cmd, cfg, "suppression_removal")
	defer logger.CloseRunFile() //nolint:errcheck

	creds, err := secrets.Load(cfg.SendGrid.SecretsFile)
	if err != nil {
		return err
	}
	logger.Info("loaded credentials", "accounts", len(creds))

	noVerify, _ := cmd.Flags().GetBool("no-verify-ssl")
	client := sendgrid.NewClient(cfg.SendGrid.BaseURL, cfg.SendGrid.Timeout(), !noVerify)

	exportDir, _ := cmd.Flags().GetString("export-dir")
	exportFn := makeExportFunc(cmd.Context(), cfg, exportDir)

	runner := suppression.NewRunner(runCfg, client, creds, promptConfirm, exportFn, cmd.OutOrStdout())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	summary, err := runner.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return &exitCodeError{code: 130, msg: "interrupted"}
		}
		return err
	}

	noHistory, _ := cmd.Flags().GetBool("no-history")
	if cfg.History.Enabled && !noHistory {
		recordHistory(cfg, summary, started)
	}

	if ctx.Err() != nil {
		return &exitCodeError{code: 130, msg: "interrupted"}
	}
	if summary.ExitCode() != 0 {
		return &exitCodeError{code: summary.ExitCode(), msg: ""}
	}
	return nil
}

// buildSweepConfig validates the target flags: exactly one of --email,
// --csv, --domain.
func buildSweepConfig(cmd *cobra.Command) (suppression.Config, error) {
	email, _ := cmd.Flags().GetString("email")
	csvPath, _ := cmd.Flags().GetString("csv")
	domain, _ := cmd.Flags().GetString("domain")

	var cfg suppression.Config
	set := 0
	if email != "" {
		cfg.Mode = suppression.ModeSingle
		cfg.Email = email
		set++
	}
	if csvPath != "" {
		cfg.Mode = suppression.ModeCSV
		cfg.CSVPath = csvPath
		set++
	}
	if domain != "" {
		cfg.Mode = suppression.ModeDomain
		cfg.Domain = domain
		set++
	}
	if set != 1 {
		return cfg, fmt.Errorf("exactly one of --email, --csv, or --domain is required")
	}

	listNames, _ := cmd.Flags().GetStringSlice("lists")
	lists, err := sendgrid.ParseLists(listNames)
	if err != nil {
		return cfg, err
	}
	cfg.Lists = lists

	cfg.DryRun, _ = cmd.Flags().GetBool("dry-run")
	cfg.Delay, _ = cmd.Flags().GetDuration("delay")
	cfg.BatchSize, _ = cmd.Flags().GetInt("batch-size")
	cfg.AutoConfirm, _ = cmd.Flags().GetBool("no-confirm")
	return cfg, nil
}

// setupLogging configures the shared logger and opens a per-run log file.
func setupLogging(cmd *cobra.Command, cfg *config.Config, prefix string) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		logger.SetLevel(logger.DEBUG)
	}
	logger.SetRedactPII(cfg.Logging.RedactPII)

	path, err := logger.OpenRunFile(cfg.Logging.Dir, prefix)
	if err != nil {
		logger.Warn("could not open run log file", "error", err.Error())
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logging to %s\n", path)
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

// makeExportFunc writes domain findings locally and mirrors them to S3
// when a bucket is configured.
func makeExportFunc(ctx context.Context, cfg *config.Config, dir string) suppression.ExportFunc {
	return func(domain string, emails []string, details map[string][]sendgrid.SuppressionRecord) (string, error) {
		path, err := export.WriteFindings(dir, domain, emails, details)
		if err != nil {
			return "", err
		}

		if cfg.Export.S3Bucket != "" {
			uploader, err := export.NewS3Uploader(ctx, cfg.Export.S3Bucket, cfg.Export.S3Region, cfg.Export.AWSProfile)
			if err != nil {
				logger.Warn("s3 uploader unavailable", "error", err.Error())
				return path, nil
			}
			key, err := uploader.Upload(ctx, path)
			if err != nil {
				logger.Warn("s3 upload failed", "error", err.Error())
			} else {
				logger.Info("export uploaded", "bucket", cfg.Export.S3Bucket, "key", key)
			}
		}
		return path, nil
	}
}

// recordHistory stores the run outcome; failures only warn.
func recordHistory(cfg *config.Config, summary *suppression.Summary, started time.Time) {
	dir := cfg.History.Dir
	if dir == "" {
		dir = history.DefaultDir()
	}
	store, err := history.Open(dir, history.DefaultOptions())
	if err != nil {
		logger.Warn("history store unavailable", "error", err.Error())
		return
	}
	defer store.Close() //nolint:errcheck

	runID, err := store.RecordRun(context.Background(), summary, started)
	if err != nil {
		logger.Warn("recording run failed", "error", err.Error())
		return
	}
	logger.Info("run recorded", "run_id", runID)
}
