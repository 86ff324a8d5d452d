package suppression

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ignite/account-hygiene/internal/secrets"
	"github.com/ignite/account-hygiene/internal/sendgrid"
)

// Remover deletes one email at a time from every configured (account, list)
// pair and keeps the per-account tallies. A 404 from any pair is a benign
// "not in this list"; any hard error anywhere makes the email's run-level
// result a failure even if other pairs succeeded.
type Remover struct {
	client       *sendgrid.Client
	creds        secrets.Credentials
	lists        []sendgrid.ListType
	dryRun       bool
	accountStats map[string]*AccountTally
}

// NewRemover creates a Remover over the given accounts and target lists.
func NewRemover(client *sendgrid.Client, creds secrets.Credentials, lists []sendgrid.ListType, dryRun bool) *Remover {
	stats := make(map[string]*AccountTally, len(creds))
	for name := range creds {
		stats[name] = &AccountTally{}
	}
	return &Remover{
		client:       client,
		creds:        creds,
		lists:        lists,
		dryRun:       dryRun,
		accountStats: stats,
	}
}

// AccountStats returns the per-account success/failure tallies.
func (r *Remover) AccountStats() map[string]*AccountTally { return r.accountStats }

// Remove deletes the email from all configured accounts and lists.
// In dry-run mode no HTTP calls are made and the result is always success
// with a message describing what would have happened.
func (r *Remover) Remove(ctx context.Context, email string) (bool, string, int) {
	if r.dryRun {
		accounts := strings.Join(r.creds.AccountNames(), ", ")
		listNames := make([]string, len(r.lists))
		for i, l := range r.lists {
			listNames[i] = string(l)
		}
		return true, fmt.Sprintf("DRY RUN - Would remove from %d account(s) (%s) and %d list(s) (%s)",
			len(r.creds), accounts, len(r.lists), strings.Join(listNames, ", ")), 204
	}

	var removed []string // "account/list" pairs that returned 204
	var failures []string

	for _, account := range r.creds.AccountNames() {
		apiKey := r.creds[account]
		for _, list := range r.lists {
			outcome := r.client.Remove(ctx, apiKey, list, email)
			switch {
			case outcome.OK && outcome.StatusCode == 204:
				removed = append(removed, account+"/"+string(list))
				r.accountStats[account].Successful++
			case outcome.OK:
				// 404: not in this list, nothing to count
			default:
				failures = append(failures, fmt.Sprintf("%s/%s", account, outcome.Message))
				r.accountStats[account].Failed++
			}
		}
	}

	if len(failures) > 0 {
		msg := "Errors: " + strings.Join(failures[:min(3, len(failures))], "; ")
		if len(failures) > 3 {
			msg += " ..."
		}
		return false, msg, 0
	}

	if len(removed) == 0 {
		return true, "Not in any suppression lists", 404
	}
	return true, "Removed from: "+summarizeByAccount(removed), 204
}

// summarizeByAccount groups "account/list" hits as "account:(l1,l2)".
func summarizeByAccount(pairs []string) string {
	byAccount := map[string][]string{}
	var order []string
	for _, pair := range pairs {
		account, list, _ := strings.Cut(pair, "/")
		if _, seen := byAccount[account]; !seen {
			order = append(order, account)
		}
		byAccount[account] = append(byAccount[account], list)
	}
	sort.Strings(order)

	parts := make([]string, len(order))
	for i, account := range order {
		parts[i] = fmt.Sprintf("%s:(%s)", account, strings.Join(byAccount[account], ","))
	}
	return strings.Join(parts, " ")
}
