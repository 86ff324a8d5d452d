// Package export writes domain-scan findings to CSV files and optionally
// mirrors them to S3.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ignite/account-hygiene/internal/sendgrid"
)

var csvHeader = []string{"Email", "Account", "Suppression List", "Reason", "Created", "Status"}

// FileName builds the export file name for a domain scan, e.g.
// "domain_suppressions_newrelic_com_20240115_093012.csv".
func FileName(domain string, now time.Time) string {
	slug := strings.TrimPrefix(domain, "@")
	slug = strings.ReplaceAll(slug, ".", "_")
	return fmt.Sprintf("domain_suppressions_%s_%s.csv", slug, now.Format("20060102_150405"))
}

// WriteFindings writes one row per (email, suppression record) into dir and
// returns the file path. Emails are emitted in the order given; records keep
// their scan order within each email.
func WriteFindings(dir, domain string, emails []string, details map[string][]sendgrid.SuppressionRecord) (string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating export dir: %w", err)
		}
	}

	path := filepath.Join(dir, FileName(domain, time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", fmt.Errorf("writing export header: %w", err)
	}
	for _, email := range emails {
		for _, rec := range details[email] {
			row := []string{rec.Email, rec.Account, string(rec.List), rec.Reason, rec.Created, rec.Status}
			if err := w.Write(row); err != nil {
				return "", fmt.Errorf("writing export row: %w", err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing export file: %w", err)
	}
	return path, nil
}
