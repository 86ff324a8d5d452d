package nerdgraph

import (
	"context"
	"fmt"
)

// Policy is one alert policy.
type Policy struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	IncidentPreference string `json:"incidentPreference"`
}

// Policies lists the alert policies for an account.
func (c *Client) Policies(ctx context.Context, accountID int) ([]Policy, error) {
	query := fmt.Sprintf(`
{
  actor {
    account(id: %d) {
      alerts {
        policiesSearch {
          policies {
            id
            name
            incidentPreference
          }
        }
      }
    }
  }
}
`, accountID)

	var data struct {
		Actor struct {
			Account *struct {
				Alerts struct {
					PoliciesSearch struct {
						Policies []Policy `json:"policies"`
					} `json:"policiesSearch"`
				} `json:"alerts"`
			} `json:"account"`
		} `json:"actor"`
	}
	if err := c.Execute(ctx, query, &data); err != nil {
		return nil, fmt.Errorf("querying policies for account %d: %w", accountID, err)
	}
	if data.Actor.Account == nil {
		return nil, fmt.Errorf("no data for account %d or access denied", accountID)
	}
	return data.Actor.Account.Alerts.PoliciesSearch.Policies, nil
}

// DeletePolicy removes one alert policy.
func (c *Client) DeletePolicy(ctx context.Context, accountID int, policyID string) error {
	mutation := fmt.Sprintf(`
mutation {
  alertsPolicyDelete(accountId: %d, id: "%s") {
    id
  }
}
`, accountID, policyID)

	if err := c.Execute(ctx, mutation, nil); err != nil {
		return fmt.Errorf("deleting policy %s in account %d: %w", policyID, accountID, err)
	}
	return nil
}
