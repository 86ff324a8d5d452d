package suppression

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/ignite/account-hygiene/internal/pkg/logger"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether the address matches the accepted format.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// headerNames are first-cell values treated as a CSV header row.
var headerNames = map[string]bool{
	"email":         true,
	"emails":        true,
	"email address": true,
	"address":       true,
}

// ReadEmailsCSV reads email addresses from the first column of a CSV file.
// A first row whose first cell looks like a header label is skipped.
// An empty file or a file with no emails is an error.
func ReadEmailsCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var emails []string
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing CSV file: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])

		if first {
			first = false
			if headerNames[strings.ToLower(cell)] {
				logger.Info("detected header row", "header", cell)
				continue
			}
		}
		if cell != "" {
			emails = append(emails, cell)
		}
	}

	if len(emails) == 0 {
		return nil, fmt.Errorf("no emails found in %s", path)
	}
	logger.Info("read emails from CSV", "path", path, "count", len(emails))
	return emails, nil
}

// NormalizeDomain lowercases a domain and ensures a leading "@".
func NormalizeDomain(domain string) string {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if !strings.HasPrefix(domain, "@") {
		domain = "@" + domain
	}
	return domain
}
