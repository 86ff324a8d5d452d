package suppression

import "github.com/ignite/account-hygiene/internal/sendgrid"

// ResultStatus classifies the per-email outcome of a run.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusFailed  ResultStatus = "failed"
	StatusSkipped ResultStatus = "skipped"
)

// OperationResult records the outcome for one processed email.
// StatusCode is 0 when no HTTP status applies (skips, transport failures).
type OperationResult struct {
	Email      string
	Status     ResultStatus
	Message    string
	StatusCode int
}

// Stats aggregates run-level outcomes.
type Stats struct {
	Total      int
	Successful int
	Failed     int
	Skipped    int
}

// AccountTally counts per-account removal outcomes. 404s count neither way.
type AccountTally struct {
	Successful int
	Failed     int
}

// Summary is everything a run produced, for reporting and history.
type Summary struct {
	Mode         Mode
	Target       string
	DryRun       bool
	Cancelled    bool
	Stats        Stats
	Results      []OperationResult
	AccountStats map[string]*AccountTally
	Findings     map[string][]sendgrid.SuppressionRecord
	ExportPath   string
}

// ExitCode maps a run summary to the process exit code: 0 for success,
// no-op, or operator cancellation; 1 when any email failed.
func (s *Summary) ExitCode() int {
	if s.Stats.Failed > 0 {
		return 1
	}
	return 0
}
