// Package history persists suppression run outcomes to a local SQLite
// database so operators can audit what past sweeps removed.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ignite/account-hygiene/internal/suppression"
)

// Store provides SQLite-backed storage for run history.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// DefaultDir returns the XDG data directory for the history database.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "account-hygiene")
}

// Open opens or creates the history database under dbDir.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, "history.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("history database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("checking history database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating history tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		target TEXT NOT NULL,
		dry_run INTEGER NOT NULL DEFAULT 0,
		cancelled INTEGER NOT NULL DEFAULT 0,
		total INTEGER NOT NULL DEFAULT 0,
		successful INTEGER NOT NULL DEFAULT 0,
		failed INTEGER NOT NULL DEFAULT 0,
		skipped INTEGER NOT NULL DEFAULT 0,
		export_path TEXT,
		started_at DATETIME NOT NULL,
		finished_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_runs_mode ON runs(mode);

	CREATE TABLE IF NOT EXISTS run_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL REFERENCES runs(id),
		email TEXT NOT NULL,
		status TEXT NOT NULL,
		message TEXT,
		status_code INTEGER
	);

	CREATE INDEX IF NOT EXISTS idx_results_run ON run_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_results_email ON run_results(email);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Run is one recorded sweep.
type Run struct {
	ID         string
	Mode       string
	Target     string
	DryRun     bool
	Cancelled  bool
	Total      int
	Successful int
	Failed     int
	Skipped    int
	ExportPath string
	StartedAt  time.Time
	FinishedAt time.Time
}

// RecordRun stores a finished sweep and its per-email results, returning the
// generated run ID.
func (s *Store) RecordRun(ctx context.Context, summary *suppression.Summary, startedAt time.Time) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting history transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	_, err = tx.ExecContext(ctx, `
	INSERT INTO runs (id, mode, target, dry_run, cancelled, total, successful, failed, skipped, export_path, started_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		string(summary.Mode),
		summary.Target,
		boolToInt(summary.DryRun),
		boolToInt(summary.Cancelled),
		summary.Stats.Total,
		summary.Stats.Successful,
		summary.Stats.Failed,
		summary.Stats.Skipped,
		summary.ExportPath,
		startedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, res := range summary.Results {
		_, err = tx.ExecContext(ctx, `
		INSERT INTO run_results (run_id, email, status, message, status_code)
		VALUES (?, ?, ?, ?, ?)
		`, runID, res.Email, string(res.Status), res.Message, res.StatusCode)
		if err != nil {
			return "", fmt.Errorf("inserting run result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// RecentRuns returns up to limit runs, most recent first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, mode, target, dry_run, cancelled, total, successful, failed, skipped,
	       COALESCE(export_path, ''), started_at, finished_at
	FROM runs
	ORDER BY started_at DESC
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var dryRun, cancelled int
		var startedAt, finishedAt string
		err := rows.Scan(&run.ID, &run.Mode, &run.Target, &dryRun, &cancelled,
			&run.Total, &run.Successful, &run.Failed, &run.Skipped,
			&run.ExportPath, &startedAt, &finishedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.DryRun = dryRun != 0
		run.Cancelled = cancelled != 0
		run.StartedAt = parseTimestamp(startedAt)
		run.FinishedAt = parseTimestamp(finishedAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ResultsForEmail returns every recorded removal attempt for one address,
// most recent run first.
func (s *Store) ResultsForEmail(ctx context.Context, email string) ([]suppression.OperationResult, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT r.email, r.status, COALESCE(r.message, ''), COALESCE(r.status_code, 0)
	FROM run_results r
	JOIN runs ON runs.id = r.run_id
	WHERE r.email = ?
	ORDER BY runs.started_at DESC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("querying results: %w", err)
	}
	defer rows.Close()

	var results []suppression.OperationResult
	for rows.Next() {
		var res suppression.OperationResult
		var status string
		if err := rows.Scan(&res.Email, &status, &res.Message, &res.StatusCode); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		res.Status = suppression.ResultStatus(status)
		results = append(results, res)
	}
	return results, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats contains the timestamp formats that SQLite may return.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999",
}

func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
