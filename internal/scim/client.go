// Package scim handles SCIM user lookups and deletions against the New
// Relic user provisioning API, plus local filtering of exported user
// metadata ahead of bulk deletes.
package scim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the SCIM Users endpoints with a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient HTTPDoer
}

// NewClient creates a SCIM client. baseURL points at the /scim/v2 root.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) do(ctx context.Context, method, fullURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// FindUserID resolves an email to a SCIM user ID. A user that exists more
// than once in the domain resolves to the first match, mirroring the tool
// this replaces. found is false when the email is absent from the domain.
func (c *Client) FindUserID(ctx context.Context, email string) (id string, found bool, err error) {
	query := url.Values{"filter": {fmt.Sprintf("emails eq %q", email)}}
	fullURL := c.baseURL + "/Users?" + query.Encode()

	status, body, err := c.do(ctx, http.MethodGet, fullURL)
	if err != nil {
		return "", false, fmt.Errorf("looking up %s: %w", email, err)
	}
	if status != http.StatusOK {
		return "", false, fmt.Errorf("looking up %s: status %d: %s", email, status, body)
	}

	var payload struct {
		Resources []struct {
			ID string `json:"id"`
		} `json:"Resources"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", false, fmt.Errorf("decoding lookup for %s: %w", email, err)
	}
	if len(payload.Resources) == 0 {
		return "", false, nil
	}
	return payload.Resources[0].ID, true, nil
}

// DeleteUser removes a SCIM user by ID. A 204 is the only success.
func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	status, body, err := c.do(ctx, http.MethodDelete, c.baseURL+"/Users/"+url.PathEscape(userID))
	if err != nil {
		return fmt.Errorf("deleting user %s: %w", userID, err)
	}
	if status != http.StatusNoContent {
		return fmt.Errorf("deleting user %s: status %d: %s", userID, status, body)
	}
	return nil
}
