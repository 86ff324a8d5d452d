package nerdgraph

import (
	"context"
	"fmt"
)

// DefaultRoleID is the "Organization manager" role granted during deletion
// prep so the temporary group can administer every account.
const DefaultRoleID = "1254"

const authDomainsQuery = `
{
  actor {
    organization {
      authorizationManagement {
        authenticationDomains {
          authenticationDomains {
            id
            name
          }
        }
      }
    }
  }
}
`

// DefaultAuthDomainID returns the ID of the authentication domain named
// "Default", or an error if none exists.
func (c *Client) DefaultAuthDomainID(ctx context.Context) (string, error) {
	var data struct {
		Actor struct {
			Organization struct {
				AuthorizationManagement struct {
					AuthenticationDomains struct {
						AuthenticationDomains []struct {
							ID   string `json:"id"`
							Name string `json:"name"`
						} `json:"authenticationDomains"`
					} `json:"authenticationDomains"`
				} `json:"authorizationManagement"`
			} `json:"organization"`
		} `json:"actor"`
	}
	if err := c.Execute(ctx, authDomainsQuery, &data); err != nil {
		return "", fmt.Errorf("querying authentication domains: %w", err)
	}
	for _, domain := range data.Actor.Organization.AuthorizationManagement.AuthenticationDomains.AuthenticationDomains {
		if domain.Name == "Default" {
			return domain.ID, nil
		}
	}
	return "", fmt.Errorf("no authentication domain named Default")
}

// CreateGroup creates a user management group in the given authentication
// domain and returns its ID.
func (c *Client) CreateGroup(ctx context.Context, authDomainID, displayName string) (string, error) {
	mutation := fmt.Sprintf(`
mutation {
  userManagementCreateGroup(
    createGroupOptions: {
      authenticationDomainId: "%s"
      displayName: "%s"
    }
  ) {
    group {
      displayName
      id
    }
  }
}
`, authDomainID, displayName)

	var data struct {
		UserManagementCreateGroup struct {
			Group struct {
				ID string `json:"id"`
			} `json:"group"`
		} `json:"userManagementCreateGroup"`
	}
	if err := c.Execute(ctx, mutation, &data); err != nil {
		return "", fmt.Errorf("creating group %q: %w", displayName, err)
	}
	if data.UserManagementCreateGroup.Group.ID == "" {
		return "", fmt.Errorf("group creation returned no ID")
	}
	return data.UserManagementCreateGroup.Group.ID, nil
}

// GrantAccess grants the group the given role on one account.
func (c *Client) GrantAccess(ctx context.Context, groupID string, accountID int, roleID string) error {
	if roleID == "" {
		roleID = DefaultRoleID
	}
	mutation := fmt.Sprintf(`
mutation {
  authorizationManagementGrantAccess(
    grantAccessOptions: {
      groupId: "%s"
      accountAccessGrants: {
        accountId: %d
        roleId: "%s"
      }
    }
  ) {
    roles {
      displayName
      accountId
    }
  }
}
`, groupID, accountID, roleID)

	if err := c.Execute(ctx, mutation, nil); err != nil {
		return fmt.Errorf("granting access to account %d: %w", accountID, err)
	}
	return nil
}
