package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-email"))
}

func TestRedactPIIValue(t *testing.T) {
	assert.Equal(t, "jo***@example.com", redactPIIValue("email", "john.doe@example.com"))
	assert.Equal(t, "seen jo***@example.com today", redactPIIValue("note", "seen john.doe@example.com today"))
}

func TestOpenRunFile(t *testing.T) {
	dir := t.TempDir()

	path, err := OpenRunFile(dir, "suppression_sweep")
	require.NoError(t, err)
	defer CloseRunFile()

	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "suppression_sweep_"))
	assert.True(t, strings.HasSuffix(path, ".log"))

	Info("run started", "mode", "domain")
	require.NoError(t, CloseRunFile())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"run started"`)
	assert.Contains(t, string(data), `"mode":"domain"`)
}
