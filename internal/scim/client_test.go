package scim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "scim-token", 5*time.Second)
}

func TestFindUserIDFirstMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer scim-token", r.Header.Get("Authorization"))
		require.Equal(t, `emails eq "dupe@example.com"`, r.URL.Query().Get("filter"))
		w.Write([]byte(`{"Resources":[{"id":"u-1"},{"id":"u-2"}]}`)) //nolint:errcheck
	})

	id, found, err := client.FindUserID(context.Background(), "dupe@example.com")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "u-1", id)
}

func TestFindUserIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Resources":[]}`)) //nolint:errcheck
	})

	_, found, err := client.FindUserID(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestFindUserIDServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid token"}`, http.StatusUnauthorized)
	})

	_, _, err := client.FindUserID(context.Background(), "x@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestDeleteUser(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/Users/u-1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, client.DeleteUser(context.Background(), "u-1"))
}

func TestDeleteUserNon204IsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"not found"}`, http.StatusNotFound)
	})

	err := client.DeleteUser(context.Background(), "u-404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
