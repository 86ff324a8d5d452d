package suppression

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"a@b.co",
		"user@example.com",
		"first.last+tag@sub.example.org",
		"  padded@example.com  ",
	}
	for _, email := range valid {
		assert.True(t, ValidateEmail(email), email)
	}

	invalid := []string{
		"no-at-sign",
		"@example.com",
		"user@",
		"user@example",
		"user@example.c",
		"user name@example.com",
		"",
	}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), email)
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "emails.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadEmailsCSVDetectsHeader(t *testing.T) {
	path := writeCSV(t, "Email\na@example.com\nb@example.com\n")

	emails, err := ReadEmailsCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, emails)
}

func TestReadEmailsCSVNoHeader(t *testing.T) {
	path := writeCSV(t, "a@example.com,extra\nb@example.com\n\nc@example.com\n")

	emails, err := ReadEmailsCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, emails)
}

func TestReadEmailsCSVEmptyFile(t *testing.T) {
	_, err := ReadEmailsCSV(writeCSV(t, ""))
	assert.Error(t, err)

	_, err = ReadEmailsCSV(writeCSV(t, "email\n"))
	assert.Error(t, err)
}

func TestReadEmailsCSVMissingFile(t *testing.T) {
	_, err := ReadEmailsCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "@newrelic.com", NormalizeDomain("NewRelic.com"))
	assert.Equal(t, "@newrelic.com", NormalizeDomain("@newrelic.com"))
	assert.Equal(t, "@example.org", NormalizeDomain("  example.org "))
}
