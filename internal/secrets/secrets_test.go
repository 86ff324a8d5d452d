package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecrets(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o600))
	return path
}

func TestLoadParsesAndRemapsNames(t *testing.T) {
	path := writeSecrets(t, `
# production keys
SENDGRID_PARENT_KEY=SG.parent-key
SENDGRID_NEWRELIC_NOTIFICATIONS_PRODUCTION_KEY="SG.notif-prod"
SENDGRID_NEWRELIC_NOTIFICATIONS_EU_PRODUCTION_KEY=SG.notif-eu
SENDGRID_ISSUES_KEY=SG.issues-key
SENDGRID_NOREPLY_GNAR_KEY=SG.gnar-key
SENDGRID_AUTHENTICATION_KEY=SG.auth-key
SENDGRID_SOMETHING_ELSE_KEY=SG.misc-key
UNRELATED_VALUE=hello
`)

	creds, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Credentials{
		"parent":                               "SG.parent-key",
		"newrelic.notifications.production":    "SG.notif-prod",
		"newrelic.notifications.eu-production": "SG.notif-eu",
		"issues.newrelic.com":                  "SG.issues-key",
		"noreply_gnar":                         "SG.gnar-key",
		"authentication.newrelic":              "SG.auth-key",
		"something.else":                       "SG.misc-key",
	}, creds)
}

func TestLoadOrderIndependent(t *testing.T) {
	a := writeSecrets(t, "SENDGRID_PARENT_KEY=SG.one\nSENDGRID_ISSUES_KEY=SG.two\n")
	b := writeSecrets(t, "SENDGRID_ISSUES_KEY=SG.two\nSENDGRID_PARENT_KEY=SG.one\n")

	credsA, err := Load(a)
	require.NoError(t, err)
	credsB, err := Load(b)
	require.NoError(t, err)

	assert.Equal(t, credsA, credsB)
}

func TestLoadSkipsPlaceholders(t *testing.T) {
	path := writeSecrets(t, "SENDGRID_PARENT_KEY=SG.real\nSENDGRID_STAGING_KEY=SG.your_key_here\n")

	creds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Credentials{"parent": "SG.real"}, creds)
}

func TestLoadRejectsBadPrefix(t *testing.T) {
	path := writeSecrets(t, "SENDGRID_PARENT_KEY=not-a-sendgrid-key\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API key format")
}

func TestLoadNoKeysIsSentinel(t *testing.T) {
	path := writeSecrets(t, "OTHER=value\n")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoCredentials)
}

func TestLoadAccountNamesSorted(t *testing.T) {
	path := writeSecrets(t, "SENDGRID_PARENT_KEY=SG.one\nSENDGRID_ISSUES_KEY=SG.two\n")

	creds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"issues.newrelic.com", "parent"}, creds.AccountNames())
}
