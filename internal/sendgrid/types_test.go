package sendgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLists(t *testing.T) {
	all, err := ParseLists(nil)
	require.NoError(t, err)
	assert.Equal(t, AllLists(), all)

	all, err = ParseLists([]string{"bounces", "all"})
	require.NoError(t, err)
	assert.Equal(t, AllLists(), all)

	subset, err := ParseLists([]string{"bounces", "blocks", "bounces"})
	require.NoError(t, err)
	assert.Equal(t, []ListType{ListBounces, ListBlocks}, subset)

	_, err = ParseLists([]string{"bounces", "nope"})
	assert.Error(t, err)
}

func TestListEndpoints(t *testing.T) {
	assert.Equal(t, "/v3/asm/suppressions/global", ListGlobal.Endpoint())
	assert.Equal(t, "/v3/suppression/bounces", ListBounces.Endpoint())
	assert.Equal(t, "/v3/suppression/spam_reports", ListSpamReports.Endpoint())
	assert.Len(t, AllLists(), 5)
}

func TestFirstPresent(t *testing.T) {
	record := map[string]interface{}{
		"Email":      "User@Example.com",
		"created":    float64(1700000000),
		"reason":     "",
		"suppressed": true,
	}

	assert.Equal(t, "User@Example.com", FirstPresent(record, "email", "Email", "address"))
	assert.Equal(t, "1700000000", FirstPresent(record, "created", "created_at"))
	assert.Equal(t, "", FirstPresent(record, "reason"))
	assert.Equal(t, "true", FirstPresent(record, "suppressed"))
	assert.Equal(t, "", FirstPresent(record, "missing", "also_missing"))
}

func TestRecordFromItem(t *testing.T) {
	rec := RecordFromItem("parent", ListBounces, map[string]interface{}{
		"email":   "x@example.com",
		"reason":  "550 unknown user",
		"created": float64(1700000000),
	})

	assert.Equal(t, "parent", rec.Account)
	assert.Equal(t, ListBounces, rec.List)
	assert.Equal(t, "x@example.com", rec.Email)
	assert.Equal(t, "550 unknown user", rec.Reason)
	assert.Equal(t, "1700000000", rec.Created)
	assert.Equal(t, "N/A", rec.Status)
}
