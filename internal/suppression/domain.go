package suppression

import (
	"context"
	"sort"
	"strings"

	"github.com/ignite/account-hygiene/internal/pkg/logger"
	"github.com/ignite/account-hygiene/internal/secrets"
	"github.com/ignite/account-hygiene/internal/sendgrid"
)

// FindEmailsByDomain scans every configured (account, list) pair for
// suppression entries whose email ends with the domain (case-insensitive,
// normalized to a leading "@"). SendGrid has no server-side domain filter,
// so this downloads each full list and filters locally.
//
// Returns the sorted unique lowercased emails and the per-email detail map.
func FindEmailsByDomain(ctx context.Context, client *sendgrid.Client, creds secrets.Credentials, lists []sendgrid.ListType, domain string) ([]string, map[string][]sendgrid.SuppressionRecord) {
	domain = NormalizeDomain(domain)
	logger.Info("searching suppressions by domain", "domain", domain)

	unique := map[string]bool{}
	details := map[string][]sendgrid.SuppressionRecord{}

	for _, account := range creds.AccountNames() {
		apiKey := creds[account]
		for _, list := range lists {
			records := client.FetchList(ctx, account, apiKey, list)

			matches := 0
			for _, item := range records {
				email := sendgrid.FirstPresent(item, "email", "Email", "address")
				if email == "" || !strings.HasSuffix(strings.ToLower(email), domain) {
					continue
				}
				lower := strings.ToLower(email)
				unique[lower] = true
				rec := sendgrid.RecordFromItem(account, list, item)
				rec.Email = lower
				details[lower] = append(details[lower], rec)
				matches++
			}

			logger.Info("domain scan list done",
				"account", account, "list", string(list),
				"matches", matches, "total_unique", len(unique))
		}
	}

	emails := make([]string, 0, len(unique))
	for email := range unique {
		emails = append(emails, email)
	}
	sort.Strings(emails)
	return emails, details
}
