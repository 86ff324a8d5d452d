package nerdgraph

import (
	"context"
	"fmt"
)

// Channel is one AI notifications channel.
type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DestinationIDs lists the AI notification destination IDs for an account.
func (c *Client) DestinationIDs(ctx context.Context, accountID int) ([]string, error) {
	query := fmt.Sprintf(`
{
  actor {
    account(id: %d) {
      aiNotifications {
        destinations {
          entities {
            id
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
				AiNotifications struct {
					Destinations struct {
						Entities []struct {
							ID string `json:"id"`
						} `json:"entities"`
					} `json:"destinations"`
				} `json:"aiNotifications"`
			} `json:"account"`
		} `json:"actor"`
	}
	if err := c.Execute(ctx, query, &data); err != nil {
		return nil, fmt.Errorf("querying destinations for account %d: %w", accountID, err)
	}
	if data.Actor.Account == nil {
		return nil, fmt.Errorf("no data for account %d or access denied", accountID)
	}

	var ids []string
	for _, entity := range data.Actor.Account.AiNotifications.Destinations.Entities {
		ids = append(ids, entity.ID)
	}
	return ids, nil
}

// DeleteDestination removes one AI notification destination.
func (c *Client) DeleteDestination(ctx context.Context, accountID int, destinationID string) error {
	mutation := fmt.Sprintf(`
mutation {
  aiNotificationsDeleteDestination(
    accountId: %d
    destinationId: "%s"
  ) {
    ids
    error {
      details
    }
  }
}
`, accountID, destinationID)

	var data struct {
		AiNotificationsDeleteDestination struct {
			Error *struct {
				Details string `json:"details"`
			} `json:"error"`
		} `json:"aiNotificationsDeleteDestination"`
	}
	if err := c.Execute(ctx, mutation, &data); err != nil {
		return fmt.Errorf("deleting destination %s: %w", destinationID, err)
	}
	if e := data.AiNotificationsDeleteDestination.Error; e != nil && e.Details != "" {
		return fmt.Errorf("deleting destination %s: %s", destinationID, e.Details)
	}
	return nil
}

// Channels lists the AI notification channels for an account.
func (c *Client) Channels(ctx context.Context, accountID int) ([]Channel, error) {
	query := fmt.Sprintf(`
{
  actor {
    account(id: %d) {
      aiNotifications {
        channels(filters: {}) {
          entities {
            id
            name
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
				AiNotifications struct {
					Channels struct {
						Entities []Channel `json:"entities"`
					} `json:"channels"`
				} `json:"aiNotifications"`
			} `json:"account"`
		} `json:"actor"`
	}
	if err := c.Execute(ctx, query, &data); err != nil {
		return nil, fmt.Errorf("querying channels for account %d: %w", accountID, err)
	}
	if data.Actor.Account == nil {
		return nil, fmt.Errorf("no data for account %d or access denied", accountID)
	}
	return data.Actor.Account.AiNotifications.Channels.Entities, nil
}

// DeleteChannel removes one AI notification channel.
func (c *Client) DeleteChannel(ctx context.Context, accountID int, channelID string) error {
	mutation := fmt.Sprintf(`
mutation {
  aiNotificationsDeleteChannel(
    accountId: %d
    channelId: "%s"
  ) {
    ids
    error {
      details
    }
  }
}
`, accountID, channelID)

	var data struct {
		AiNotificationsDeleteChannel struct {
			Error *struct {
				Details string `json:"details"`
			} `json:"error"`
		} `json:"aiNotificationsDeleteChannel"`
	}
	if err := c.Execute(ctx, mutation, &data); err != nil {
		return fmt.Errorf("deleting channel %s: %w", channelID, err)
	}
	if e := data.AiNotificationsDeleteChannel.Error; e != nil && e.Details != "" {
		return fmt.Errorf("deleting channel %s: %s", channelID, e.Details)
	}
	return nil
}
