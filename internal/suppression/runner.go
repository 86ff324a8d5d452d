// Package suppression implements the suppression sweep: credential-wide
// existence checks, domain scans, and bulk removal across SendGrid's five
// suppression lists, driven by an explicit run state machine.
package suppression

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ignite/account-hygiene/internal/pkg/logger"
	"github.com/ignite/account-hygiene/internal/secrets"
	"github.com/ignite/account-hygiene/internal/sendgrid"
)

// Mode selects how the run picks its target emails.
type Mode string

const (
	ModeSingle Mode = "single-email"
	ModeCSV    Mode = "csv-file"
	ModeDomain Mode = "domain"
)

// State is the run driver's position in its lifecycle.
type State int

const (
	StateInit State = iota
	StateModeSelected
	StateChecked
	StateConfirmed
	StateCancelled
	StateProcessing
	StateSummarized
)

// Config is the immutable per-run configuration.
type Config struct {
	Mode        Mode
	Email       string
	CSVPath     string
	Domain      string
	DryRun      bool
	Delay       time.Duration
	BatchSize   int // display only
	Lists       []sendgrid.ListType
	AutoConfirm bool
}

// ConfirmFunc asks the operator for a go/no-go decision.
type ConfirmFunc func(prompt string) (bool, error)

// ExportFunc writes domain-scan findings to a CSV and returns its path.
type ExportFunc func(domain string, emails []string, details map[string][]sendgrid.SuppressionRecord) (string, error)

// Runner drives one suppression sweep through the state machine
// INIT → MODE_SELECTED → CHECKED → CONFIRMED|CANCELLED → PROCESSING → SUMMARIZED.
type Runner struct {
	cfg     Config
	client  *sendgrid.Client
	creds   secrets.Credentials
	confirm ConfirmFunc
	export  ExportFunc
	out     io.Writer

	state State
}

// NewRunner wires a run driver. confirm is consulted before processing
// unless auto-confirm is set; export is invoked unconditionally after a
// domain scan with findings.
func NewRunner(cfg Config, client *sendgrid.Client, creds secrets.Credentials, confirm ConfirmFunc, export ExportFunc, out io.Writer) *Runner {
	return &Runner{
		cfg:     cfg,
		client:  client,
		creds:   creds,
		confirm: confirm,
		export:  export,
		out:     out,
		state:   StateInit,
	}
}

// State returns the driver's current lifecycle state.
func (r *Runner) State() State { return r.state }

// Run executes the sweep. The returned Summary is non-nil whenever the run
// reached a terminal state without a fatal error; a cancelled run is not
// an error.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	if len(r.creds) == 0 {
		return nil, fmt.Errorf("%w: cannot start a sweep", secrets.ErrNoCredentials)
	}

	summary := &Summary{
		Mode:   r.cfg.Mode,
		DryRun: r.cfg.DryRun,
	}

	emails, err := r.selectAndCheck(ctx, summary)
	if err != nil {
		return nil, err
	}
	r.state = StateChecked

	if len(emails) == 0 {
		// Nothing to do is a clean terminal outcome, not an error.
		fmt.Fprintln(r.out, "Nothing to remove - no suppression entries matched.")
		r.state = StateSummarized
		return summary, nil
	}

	if !r.cfg.AutoConfirm {
		prompt := fmt.Sprintf("About to remove %d email(s) from suppression lists. Continue? (yes/no): ", len(emails))
		if r.cfg.DryRun {
			prompt = fmt.Sprintf("DRY RUN: about to simulate removal of %d email(s). Continue? (yes/no): ", len(emails))
		}
		ok, err := r.confirm(prompt)
		if err != nil {
			return nil, fmt.Errorf("reading confirmation: %w", err)
		}
		if !ok {
			fmt.Fprintln(r.out, "Operation cancelled by user.")
			summary.Cancelled = true
			r.state = StateCancelled
			return summary, nil
		}
	}
	r.state = StateConfirmed

	r.process(ctx, emails, summary)
	r.state = StateSummarized
	r.printSummary(summary)
	return summary, ctx.Err()
}

// selectAndCheck resolves the run's target emails per mode and filters out
// addresses with zero suppression findings.
func (r *Runner) selectAndCheck(ctx context.Context, summary *Summary) ([]string, error) {
	r.state = StateModeSelected

	switch r.cfg.Mode {
	case ModeSingle:
		summary.Target = r.cfg.Email
		if !ValidateEmail(r.cfg.Email) {
			return nil, fmt.Errorf("invalid email format: %s", r.cfg.Email)
		}
		findings := r.checkEmail(ctx, r.cfg.Email)
		if len(findings) == 0 {
			fmt.Fprintf(r.out, "%s is not in any suppression lists across all accounts.\n", r.cfg.Email)
			return nil, nil
		}
		summary.Findings = map[string][]sendgrid.SuppressionRecord{r.cfg.Email: findings}
		r.printFindings(r.cfg.Email, findings)
		return []string{r.cfg.Email}, nil

	case ModeCSV:
		summary.Target = r.cfg.CSVPath
		emails, err := ReadEmailsCSV(r.cfg.CSVPath)
		if err != nil {
			return nil, err
		}

		summary.Findings = map[string][]sendgrid.SuppressionRecord{}
		var withFindings []string
		for i, email := range emails {
			if !ValidateEmail(email) {
				logger.Warn("skipping invalid email", "email", email, "position", i+1)
				continue
			}
			findings := r.checkEmail(ctx, email)
			if len(findings) == 0 {
				fmt.Fprintf(r.out, "[%d/%d] %s - not in any suppression lists\n", i+1, len(emails), email)
				continue
			}
			summary.Findings[email] = findings
			withFindings = append(withFindings, email)
			fmt.Fprintf(r.out, "[%d/%d] %s - found in %d list(s)\n", i+1, len(emails), email, len(findings))
		}
		return withFindings, nil

	case ModeDomain:
		domain := NormalizeDomain(r.cfg.Domain)
		summary.Target = domain
		emails, details := FindEmailsByDomain(ctx, r.client, r.creds, r.cfg.Lists, domain)
		summary.Findings = details
		if len(emails) == 0 {
			fmt.Fprintf(r.out, "No emails found matching domain %s\n", domain)
			return nil, nil
		}
		fmt.Fprintf(r.out, "Found %d email(s) matching domain %s\n", len(emails), domain)

		// Domain scans always export full findings, before any confirmation,
		// so the detail file exists even if the operator declines.
		path, err := r.export(domain, emails, details)
		if err != nil {
			return nil, fmt.Errorf("exporting domain findings: %w", err)
		}
		summary.ExportPath = path
		fmt.Fprintf(r.out, "Full details exported to %s\n", path)
		return emails, nil

	default:
		return nil, fmt.Errorf("unknown mode %q", r.cfg.Mode)
	}
}

// checkEmail probes every (account, list) pair for one address. Probe
// errors are logged and treated as not-found, matching the original tool.
func (r *Runner) checkEmail(ctx context.Context, email string) []sendgrid.SuppressionRecord {
	var findings []sendgrid.SuppressionRecord
	for _, account := range r.creds.AccountNames() {
		apiKey := r.creds[account]
		for _, list := range r.cfg.Lists {
			rec, found, err := r.client.CheckEmail(ctx, account, apiKey, list, email)
			if err != nil {
				logger.Warn("suppression check error", "account", account, "list", string(list), "error", err.Error())
				continue
			}
			if found {
				findings = append(findings, rec)
			}
		}
	}
	return findings
}

// process removes each surviving email, pausing Delay between emails but
// not after the last one.
func (r *Runner) process(ctx context.Context, emails []string, summary *Summary) {
	r.state = StateProcessing
	remover := NewRemover(r.client, r.creds, r.cfg.Lists, r.cfg.DryRun)
	summary.Stats.Total = len(emails)

	logger.Info("processing emails", "count", len(emails), "dry_run", r.cfg.DryRun, "batch_size", r.cfg.BatchSize)

	for i, email := range emails {
		if ctx.Err() != nil {
			return
		}

		if !ValidateEmail(email) {
			summary.Stats.Skipped++
			summary.Results = append(summary.Results, OperationResult{
				Email: email, Status: StatusSkipped, Message: "Invalid email format",
			})
			logger.Warn("skipped invalid email", "email", email)
			continue
		}

		ok, message, code := remover.Remove(ctx, email)
		result := OperationResult{Email: email, Message: message, StatusCode: code}
		if ok {
			result.Status = StatusSuccess
			summary.Stats.Successful++
			fmt.Fprintf(r.out, "[%d/%d] ✓ %s - %s\n", i+1, len(emails), email, message)
		} else {
			result.Status = StatusFailed
			summary.Stats.Failed++
			fmt.Fprintf(r.out, "[%d/%d] ✗ %s - %s\n", i+1, len(emails), email, message)
		}
		summary.Results = append(summary.Results, result)

		if i < len(emails)-1 && r.cfg.Delay > 0 {
			select {
			case <-time.After(r.cfg.Delay):
			case <-ctx.Done():
				return
			}
		}
	}

	summary.AccountStats = remover.AccountStats()
}

func (r *Runner) printFindings(email string, findings []sendgrid.SuppressionRecord) {
	fmt.Fprintf(r.out, "%s found in %d list(s):\n", email, len(findings))
	for _, rec := range findings {
		fmt.Fprintf(r.out, "  %s  list=%-15s reason=%-30s created=%s\n",
			rec.Account, rec.List, rec.Reason, rec.Created)
	}
}

func (r *Runner) printSummary(summary *Summary) {
	fmt.Fprintln(r.out, "============================================================")
	fmt.Fprintln(r.out, " SUMMARY")
	fmt.Fprintln(r.out, "============================================================")
	fmt.Fprintf(r.out, "Total emails processed: %d\n", summary.Stats.Total)
	fmt.Fprintf(r.out, "Successful removals:    %d\n", summary.Stats.Successful)
	fmt.Fprintf(r.out, "Failed removals:        %d\n", summary.Stats.Failed)
	fmt.Fprintf(r.out, "Skipped (invalid):      %d\n", summary.Stats.Skipped)
	fmt.Fprintln(r.out, "============================================================")

	if summary.Stats.Failed > 0 {
		fmt.Fprintln(r.out, "Failed emails:")
		for _, res := range summary.Results {
			if res.Status == StatusFailed {
				fmt.Fprintf(r.out, "  - %s: %s\n", res.Email, res.Message)
			}
		}
	}
}
