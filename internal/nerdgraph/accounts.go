package nerdgraph

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// ManagedAccount is one account under the caller's organization.
type ManagedAccount struct {
	Name       string `json:"name"`
	ID         int    `json:"id"`
	RegionCode string `json:"regionCode"`
	IsCanceled bool   `json:"isCanceled"`
}

const managedAccountsQuery = `
{
  actor {
    organization {
      accountManagement {
        managedAccounts {
          name
          id
          regionCode
          isCanceled
        }
      }
    }
  }
}
`

// ManagedAccounts returns every managed account in the organization,
// cancelled ones included.
func (c *Client) ManagedAccounts(ctx context.Context) ([]ManagedAccount, error) {
	var data struct {
		Actor struct {
			Organization struct {
				AccountManagement struct {
					ManagedAccounts []ManagedAccount `json:"managedAccounts"`
				} `json:"accountManagement"`
			} `json:"organization"`
		} `json:"actor"`
	}
	if err := c.Execute(ctx, managedAccountsQuery, &data); err != nil {
		return nil, fmt.Errorf("querying managed accounts: %w", err)
	}
	return data.Actor.Organization.AccountManagement.ManagedAccounts, nil
}

// ActiveAccounts filters out cancelled accounts.
func ActiveAccounts(accounts []ManagedAccount) []ManagedAccount {
	var active []ManagedAccount
	for _, account := range accounts {
		if !account.IsCanceled {
			active = append(active, account)
		}
	}
	return active
}

// RegionCodes returns the distinct region codes across accounts, sorted.
func RegionCodes(accounts []ManagedAccount) []string {
	seen := map[string]bool{}
	for _, account := range accounts {
		seen[account.RegionCode] = true
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// WriteAccountIDsCSV writes one headerless CSV per region under dir, named
// account_ids_<region>.csv, and returns the written paths.
func WriteAccountIDsCSV(dir string, accounts []ManagedAccount) ([]string, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	var paths []string
	for _, region := range RegionCodes(accounts) {
		path := filepath.Join(dir, fmt.Sprintf("account_ids_%s.csv", region))
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}

		w := csv.NewWriter(f)
		for _, account := range accounts {
			if account.RegionCode != region {
				continue
			}
			if err := w.Write([]string{strconv.Itoa(account.ID)}); err != nil {
				f.Close()
				return nil, fmt.Errorf("writing %s: %w", path, err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("flushing %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("closing %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// ReadAccountIDsCSV reads a headerless one-column CSV of account IDs.
func ReadAccountIDsCSV(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening account IDs file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading account IDs: %w", err)
	}

	var ids []int
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		id, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("invalid account ID %q: %w", row[0], err)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no account IDs found in %s", path)
	}
	return ids, nil
}
