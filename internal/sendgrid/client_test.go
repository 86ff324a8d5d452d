package sendgrid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		baseURL:    server.URL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		pageDelay:  0,
	}
}

func TestCheckEmailFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/suppression/bounces/x@example.com", r.URL.Path)
		assert.Equal(t, "Bearer SG.key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"email":"x@example.com","reason":"550 unknown user","created":1700000000}]`)
	}))
	defer server.Close()

	client := newTestClient(server)
	rec, found, err := client.CheckEmail(context.Background(), "parent", "SG.key", ListBounces, "x@example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "parent", rec.Account)
	assert.Equal(t, "550 unknown user", rec.Reason)
	assert.Equal(t, "1700000000", rec.Created)
}

func TestCheckEmailEmptyBodyMeansNotFound(t *testing.T) {
	cases := map[string]string{
		"empty array":      `[]`,
		"empty object":     `{}`,
		"all-falsy object": `{"recipient_email":"","created":0,"suppressed":false}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, body)
			}))
			defer server.Close()

			_, found, err := newTestClient(server).CheckEmail(context.Background(), "parent", "SG.key", ListGlobal, "x@example.com")
			require.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestCheckEmail404MeansNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, found, err := newTestClient(server).CheckEmail(context.Background(), "parent", "SG.key", ListBlocks, "x@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCheckEmailServerErrorIsNotFoundWithDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, found, err := newTestClient(server).CheckEmail(context.Background(), "parent", "SG.key", ListBlocks, "x@example.com")
	assert.False(t, found)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestFetchListPaginates(t *testing.T) {
	// Pages of 500, 500, 137 must aggregate to exactly 1137 records and
	// stop after the third page.
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		require.Equal(t, 500, limit)

		size := 500
		if offset == 1000 {
			size = 137
		}
		require.LessOrEqual(t, offset, 1000)

		batch := make([]map[string]interface{}, size)
		for i := range batch {
			batch[i] = map[string]interface{}{"email": fmt.Sprintf("u%d@example.com", offset+i)}
		}
		json.NewEncoder(w).Encode(batch)
	}))
	defer server.Close()

	records := newTestClient(server).FetchList(context.Background(), "parent", "SG.key", ListBounces)
	assert.Len(t, records, 1137)
	assert.Equal(t, 3, requests)
}

func TestFetchListHandlesResultWrapper(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":[{"email":"a@example.com"},{"email":"b@example.com"}]}`)
	}))
	defer server.Close()

	records := newTestClient(server).FetchList(context.Background(), "parent", "SG.key", ListGlobal)
	assert.Len(t, records, 2)
}

func TestFetchListNon200AbortsWithoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	records := newTestClient(server).FetchList(context.Background(), "parent", "SG.key", ListBounces)
	assert.Empty(t, records)
}

func TestRemoveOutcomes(t *testing.T) {
	cases := []struct {
		status  int
		ok      bool
		message string
	}{
		{http.StatusNoContent, true, "Removed from bounces"},
		{http.StatusNotFound, true, "Not in bounces"},
		{http.StatusUnauthorized, false, "bounces: Auth failed"},
		{http.StatusForbidden, false, "bounces: Permission denied"},
		{http.StatusInternalServerError, false, "bounces: Error 500"},
	}

	for _, tc := range cases {
		t.Run(tc.message, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			outcome := newTestClient(server).Remove(context.Background(), "SG.key", ListBounces, "x@example.com")
			assert.Equal(t, tc.ok, outcome.OK)
			assert.Equal(t, tc.message, outcome.Message)
			assert.Equal(t, tc.status, outcome.StatusCode)
		})
	}
}

func TestRemoveConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	outcome := newTestClient(server).Remove(context.Background(), "SG.key", ListBlocks, "x@example.com")
	assert.False(t, outcome.OK)
	assert.Contains(t, outcome.Message, "blocks: Connection error")
}
