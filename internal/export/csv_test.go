package export

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/account-hygiene/internal/sendgrid"
)

func TestFileName(t *testing.T) {
	at := time.Date(2024, 1, 15, 9, 30, 12, 0, time.UTC)
	assert.Equal(t, "domain_suppressions_newrelic_com_20240115_093012.csv", FileName("@newrelic.com", at))
	assert.Equal(t, "domain_suppressions_corp_io_20240115_093012.csv", FileName("corp.io", at))
}

func TestWriteFindings(t *testing.T) {
	dir := t.TempDir()
	details := map[string][]sendgrid.SuppressionRecord{
		"a@corp.io": {
			{Account: "parent", List: sendgrid.ListBounces, Email: "a@corp.io", Reason: "550", Created: "1700000000", Status: "N/A"},
			{Account: "parent", List: sendgrid.ListBlocks, Email: "a@corp.io", Reason: "N/A", Created: "N/A", Status: "N/A"},
		},
		"b@corp.io": {
			{Account: "issues.newrelic.com", List: sendgrid.ListGlobal, Email: "b@corp.io", Reason: "N/A", Created: "N/A", Status: "N/A"},
		},
	}

	path, err := WriteFindings(dir, "@corp.io", []string{"a@corp.io", "b@corp.io"}, details)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, dir))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Email", "Account", "Suppression List", "Reason", "Created", "Status"}, rows[0])
	assert.Equal(t, []string{"a@corp.io", "parent", "bounces", "550", "1700000000", "N/A"}, rows[1])
	assert.Equal(t, "b@corp.io", rows[3][0])
}

func TestWriteFindingsCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/exports"
	path, err := WriteFindings(dir, "corp.io", nil, nil)
	require.NoError(t, err)
	assert.FileExists(t, path)
}
