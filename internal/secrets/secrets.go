// Package secrets loads named SendGrid API keys from a local .env-style
// secrets file. Variables of the form SENDGRID_<NAME>_KEY are recognized
// and <NAME> is remapped to the human-readable subuser account name used
// everywhere in reports and exports.
package secrets

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

const (
	keyPrefix   = "SENDGRID_"
	keySuffix   = "_KEY"
	valuePrefix = "SG."
	placeholder = "your_key_here"
)

// ErrNoCredentials indicates the secrets file held no usable SendGrid keys.
// Callers decide whether that is fatal: the sweep driver aborts, the
// check-only path reports "nothing configured" and exits cleanly.
var ErrNoCredentials = errors.New("no valid SendGrid API keys found")

// Credentials maps account display name to API key.
type Credentials map[string]string

// AccountNames returns the account names in sorted order.
func (c Credentials) AccountNames() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Load reads the secrets file and returns the account-name → API-key
// mapping. A missing or unreadable file is a hard error. A readable file
// with no usable keys returns ErrNoCredentials. A key that does not start
// with "SG." is a hard error; placeholder values are silently skipped.
func Load(path string) (Credentials, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("reading secrets file %s: %w", path, err)
	}

	creds := Credentials{}
	for name, value := range vars {
		if !strings.HasPrefix(name, keyPrefix) || !strings.HasSuffix(name, keySuffix) {
			continue
		}

		account := accountName(name)
		value = strings.TrimSpace(value)

		if !strings.HasPrefix(value, valuePrefix) {
			return nil, fmt.Errorf("invalid API key format for %s (should start with %q)", account, valuePrefix)
		}
		if strings.HasSuffix(value, placeholder) {
			continue
		}

		creds[account] = value
	}

	if len(creds) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCredentials, path)
	}
	return creds, nil
}

// accountName derives the display name from a SENDGRID_*_KEY variable name.
// SENDGRID_PARENT_KEY → parent
// SENDGRID_NEWRELIC_NOTIFICATIONS_EU_PRODUCTION_KEY → newrelic.notifications.eu-production
// SENDGRID_NEWRELIC_NOTIFICATIONS_STAGING_KEY → newrelic.notifications.staging
func accountName(varName string) string {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(varName, keyPrefix), keySuffix)
	parts := strings.Split(strings.ToLower(trimmed), "_")

	contains := func(s string) bool {
		for _, p := range parts {
			if p == s {
				return true
			}
		}
		return false
	}

	switch {
	case len(parts) == 1 && parts[0] == "parent":
		return "parent"
	case contains("newrelic") && contains("notifications"):
		idx := 0
		for i, p := range parts {
			if p == "notifications" {
				idx = i
				break
			}
		}
		remaining := parts[idx+1:]
		for _, p := range remaining {
			if p == "eu" {
				return "newrelic.notifications.eu-production"
			}
		}
		return "newrelic.notifications." + strings.Join(remaining, ".")
	case contains("issues"):
		return "issues.newrelic.com"
	case contains("noreply") && contains("gnar"):
		return "noreply_gnar"
	case contains("authentication"):
		return "authentication.newrelic"
	default:
		return strings.Join(parts, ".")
	}
}
