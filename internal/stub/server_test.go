package stub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/account-hygiene/internal/sendgrid"
)

func doReq(t *testing.T, handler http.Handler, method, path, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthRequired(t *testing.T) {
	s := New("SG.stub")
	rec := doReq(t, s.Handler(), http.MethodGet, "/v3/suppression/bounces/x@example.com", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doReq(t, s.Handler(), http.MethodGet, "/v3/suppression/bounces/x@example.com", "SG.stub")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSingleEmail(t *testing.T) {
	s := New("")
	s.Seed(sendgrid.ListBounces, Entry{Email: "x@example.com", Reason: "550 unknown user", Created: 1700000000})

	rec := doReq(t, s.Handler(), http.MethodGet, "/v3/suppression/bounces/x@example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "550 unknown user", entries[0].Reason)

	// Absent email: bare empty array
	rec = doReq(t, s.Handler(), http.MethodGet, "/v3/suppression/bounces/y@example.com", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestGlobalListUsesObjectShapes(t *testing.T) {
	s := New("")
	s.Seed(sendgrid.ListGlobal, Entry{Email: "x@example.com"})

	rec := doReq(t, s.Handler(), http.MethodGet, "/v3/asm/suppressions/global/x@example.com", "")
	assert.JSONEq(t, `{"recipient_email":"x@example.com"}`, rec.Body.String())

	rec = doReq(t, s.Handler(), http.MethodGet, "/v3/asm/suppressions/global/missing@example.com", "")
	assert.JSONEq(t, `{}`, rec.Body.String())

	rec = doReq(t, s.Handler(), http.MethodGet, "/v3/asm/suppressions/global?limit=500&offset=0", "")
	var wrapped struct {
		Result []Entry `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wrapped))
	assert.Len(t, wrapped.Result, 1)
}

func TestDeleteRemovesEntry(t *testing.T) {
	s := New("")
	s.Seed(sendgrid.ListBlocks, Entry{Email: "x@example.com"})

	rec := doReq(t, s.Handler(), http.MethodDelete, "/v3/suppression/blocks/x@example.com", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, s.Count(sendgrid.ListBlocks))

	// Second delete: gone
	rec = doReq(t, s.Handler(), http.MethodDelete, "/v3/suppression/blocks/x@example.com", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPagination(t *testing.T) {
	s := New("")
	for i := 0; i < 7; i++ {
		s.Seed(sendgrid.ListBounces, Entry{Email: string(rune('a'+i)) + "@example.com"})
	}

	rec := doReq(t, s.Handler(), http.MethodGet, "/v3/suppression/bounces?limit=3&offset=3", "")
	var entries []Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 3)
	assert.Equal(t, "d@example.com", entries[0].Email)
}
