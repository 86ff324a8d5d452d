// Package sendgrid is a minimal client for the SendGrid suppression API:
// per-email existence checks, paginated full-list fetches, and deletes
// across the five suppression lists.
//
// Known limitation, preserved from the tool this replaces: the existence
// check reports a failed probe (non-404 error status, timeout, connection
// error) the same way as a true negative for control-flow purposes. The
// error detail is returned alongside so callers can log it, but the email
// is still treated as "not found" in that list.
package sendgrid

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ignite/account-hygiene/internal/pkg/logger"
)

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const (
	pageLimit = 500 // SendGrid's max page size
	maxPages  = 500 // safety cap: 250k records per list
)

// Client calls the SendGrid suppression endpoints. It is account-agnostic:
// every method takes the API key of the account to act on.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
	pageDelay  time.Duration
}

// NewClient creates a suppression API client. When verifyTLS is false the
// client accepts any certificate (corporate TLS-inspection networks).
func NewClient(baseURL string, timeout time.Duration, verifyTLS bool) *Client {
	hc := &http.Client{Timeout: timeout}
	if !verifyTLS {
		hc.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: hc,
		pageDelay:  100 * time.Millisecond,
	}
}

func (c *Client) do(ctx context.Context, method, apiKey, fullURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, fullURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

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

// CheckEmail probes one (account, list) pair for a single email.
// HTTP 200 with real data means found; 200 with an empty array or an
// all-falsy object means not found; 404 means not found. Any other status
// or transport failure returns found=false with the error attached.
func (c *Client) CheckEmail(ctx context.Context, account, apiKey string, list ListType, email string) (SuppressionRecord, bool, error) {
	status, body, err := c.do(ctx, http.MethodGet, apiKey, c.baseURL+list.Endpoint()+"/"+url.PathEscape(email))
	if err != nil {
		return SuppressionRecord{}, false, fmt.Errorf("checking %s: %w", list, err)
	}

	switch {
	case status == http.StatusOK:
		item, ok := firstItem(body)
		if !ok {
			return SuppressionRecord{}, false, nil
		}
		rec := RecordFromItem(account, list, item)
		if rec.Email == "" {
			rec.Email = email
		}
		return rec, true, nil
	case status == http.StatusNotFound:
		return SuppressionRecord{}, false, nil
	default:
		return SuppressionRecord{}, false, fmt.Errorf("checking %s: status %d", list, status)
	}
}

// firstItem extracts the first meaningful item from a single-email GET
// body, which may be a bare array or a bare object. Empty arrays and
// objects whose values are all falsy mean the email is not suppressed.
func firstItem(body []byte) (map[string]interface{}, bool) {
	var arr []map[string]interface{}
	if err := json.Unmarshal(body, &arr); err == nil {
		if len(arr) == 0 {
			return nil, false
		}
		return arr[0], !allFalsy(arr[0])
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(body, &obj); err == nil {
		return obj, !allFalsy(obj)
	}
	return nil, false
}

func allFalsy(item map[string]interface{}) bool {
	for _, v := range item {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			if val != "" {
				return false
			}
		case bool:
			if val {
				return false
			}
		case float64:
			if val != 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// FetchList downloads every record in one (account, list) pair, paging by
// limit/offset until a short or empty batch. A non-200 page or a transport
// error aborts only this list's fetch: whatever accumulated so far is
// returned and the problem is logged, never fatal. A hard cap of 500 pages
// stops runaway pagination with a warning.
func (c *Client) FetchList(ctx context.Context, account, apiKey string, list ListType) []map[string]interface{} {
	var all []map[string]interface{}
	offset := 0

	logger.Info("fetching suppression list", "account", account, "list", string(list))

	for page := 1; ; page++ {
		if page > maxPages {
			logger.Warn("reached maximum page limit, stopping fetch",
				"account", account, "list", string(list), "max_pages", maxPages)
			break
		}

		fullURL := fmt.Sprintf("%s%s?limit=%d&offset=%d", c.baseURL, list.Endpoint(), pageLimit, offset)
		status, body, err := c.do(ctx, http.MethodGet, apiKey, fullURL)
		if err != nil {
			logger.Error("fetch failed", "account", account, "list", string(list), "error", err.Error())
			break
		}
		if status != http.StatusOK {
			logger.Error("fetch failed", "account", account, "list", string(list), "status", status)
			break
		}

		batch := parseBatch(body)
		if len(batch) == 0 {
			break
		}
		all = append(all, batch...)

		if len(all)%10000 == 0 {
			logger.Info("fetch progress", "account", account, "list", string(list), "records", len(all))
		}

		if len(batch) < pageLimit {
			break
		}
		offset += pageLimit

		// Brief pause between pages to respect rate limits.
		select {
		case <-time.After(c.pageDelay):
		case <-ctx.Done():
			logger.Warn("fetch cancelled", "account", account, "list", string(list))
			return all
		}
	}

	logger.Info("fetch complete", "account", account, "list", string(list), "records", len(all))
	return all
}

// parseBatch handles the two page shapes the lists return: a bare array,
// or an object with a "result" array.
func parseBatch(body []byte) []map[string]interface{} {
	var arr []map[string]interface{}
	if err := json.Unmarshal(body, &arr); err == nil {
		return arr
	}

	var wrapped struct {
		Result []map[string]interface{} `json:"result"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		return wrapped.Result
	}
	return nil
}

// RemoveOutcome classifies one DELETE against one (account, list) pair.
type RemoveOutcome struct {
	OK         bool
	Message    string
	StatusCode int
}

// Remove deletes an email from one suppression list. 204 and 404 are both
// OK outcomes (removed vs. not present); everything else is a failure with
// a message naming the cause.
func (c *Client) Remove(ctx context.Context, apiKey string, list ListType, email string) RemoveOutcome {
	status, _, err := c.do(ctx, http.MethodDelete, apiKey, c.baseURL+list.Endpoint()+"/"+url.PathEscape(email))
	if err != nil {
		return RemoveOutcome{OK: false, Message: fmt.Sprintf("%s: %s", list, transportErrorLabel(err))}
	}

	switch status {
	case http.StatusNoContent:
		return RemoveOutcome{OK: true, Message: fmt.Sprintf("Removed from %s", list), StatusCode: status}
	case http.StatusNotFound:
		return RemoveOutcome{OK: true, Message: fmt.Sprintf("Not in %s", list), StatusCode: status}
	case http.StatusUnauthorized:
		return RemoveOutcome{OK: false, Message: fmt.Sprintf("%s: Auth failed", list), StatusCode: status}
	case http.StatusForbidden:
		return RemoveOutcome{OK: false, Message: fmt.Sprintf("%s: Permission denied", list), StatusCode: status}
	default:
		return RemoveOutcome{OK: false, Message: fmt.Sprintf("%s: Error %d", list, status), StatusCode: status}
	}
}

// transportErrorLabel distinguishes the failure causes the summary report
// calls out: timeout, TLS, and plain connection errors.
func transportErrorLabel(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return "Timeout"
	}
	var certErr *tls.CertificateVerificationError
	var recordErr tls.RecordHeaderError
	if errors.As(err, &certErr) || errors.As(err, &recordErr) {
		return "SSL error"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "Timeout"
	}
	return "Connection error"
}
