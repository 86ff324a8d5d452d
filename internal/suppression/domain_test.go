package suppression

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/account-hygiene/internal/secrets"
	"github.com/ignite/account-hygiene/internal/sendgrid"
	"github.com/ignite/account-hygiene/internal/stub"
)

func TestFindEmailsByDomainCaseInsensitive(t *testing.T) {
	api := stub.New("SG.key")
	api.Seed(sendgrid.ListBounces, stub.Entry{Email: "x@NewRelic.com", Reason: "bounced"})
	api.Seed(sendgrid.ListBounces, stub.Entry{Email: "y@other.com"})
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	client := sendgrid.NewClient(server.URL, 5*time.Second, true)
	creds := secrets.Credentials{"parent": "SG.key"}

	emails, details := FindEmailsByDomain(context.Background(), client, creds,
		[]sendgrid.ListType{sendgrid.ListBounces}, "@newrelic.com")

	require.Equal(t, []string{"x@newrelic.com"}, emails)
	require.Len(t, details["x@newrelic.com"], 1)
	assert.Equal(t, "parent", details["x@newrelic.com"][0].Account)
	assert.Equal(t, sendgrid.ListBounces, details["x@newrelic.com"][0].List)
	assert.Equal(t, "bounced", details["x@newrelic.com"][0].Reason)
}

func TestFindEmailsByDomainAcrossListsAndAccounts(t *testing.T) {
	api := stub.New("SG.key")
	api.Seed(sendgrid.ListBounces, stub.Entry{Email: "a@corp.io"})
	api.Seed(sendgrid.ListBlocks, stub.Entry{Email: "a@corp.io"})
	api.Seed(sendgrid.ListSpamReports, stub.Entry{Email: "b@corp.io"})
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	client := sendgrid.NewClient(server.URL, 5*time.Second, true)
	creds := secrets.Credentials{"parent": "SG.key"}

	emails, details := FindEmailsByDomain(context.Background(), client, creds, sendgrid.AllLists(), "corp.io")

	assert.Equal(t, []string{"a@corp.io", "b@corp.io"}, emails)
	assert.Len(t, details["a@corp.io"], 2)
	assert.Len(t, details["b@corp.io"], 1)
}

func TestFindEmailsByDomainNoMatches(t *testing.T) {
	api := stub.New("SG.key")
	api.Seed(sendgrid.ListBounces, stub.Entry{Email: "x@other.com"})
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	client := sendgrid.NewClient(server.URL, 5*time.Second, true)
	creds := secrets.Credentials{"parent": "SG.key"}

	emails, details := FindEmailsByDomain(context.Background(), client, creds, sendgrid.AllLists(), "@corp.io")
	assert.Empty(t, emails)
	assert.Empty(t, details)
}
