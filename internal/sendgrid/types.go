package sendgrid

import (
	"fmt"
	"math"
	"strconv"
)

// ListType identifies one of SendGrid's five suppression lists.
type ListType string

const (
	ListGlobal        ListType = "global"
	ListBounces       ListType = "bounces"
	ListBlocks        ListType = "blocks"
	ListSpamReports   ListType = "spam_reports"
	ListInvalidEmails ListType = "invalid_emails"
)

// listEndpoints binds each list to its fixed API path.
var listEndpoints = map[ListType]string{
	ListGlobal:        "/v3/asm/suppressions/global",
	ListBounces:       "/v3/suppression/bounces",
	ListBlocks:        "/v3/suppression/blocks",
	ListSpamReports:   "/v3/suppression/spam_reports",
	ListInvalidEmails: "/v3/suppression/invalid_emails",
}

// AllLists returns the five suppression lists in display order.
func AllLists() []ListType {
	return []ListType{ListGlobal, ListBounces, ListBlocks, ListSpamReports, ListInvalidEmails}
}

// Endpoint returns the API path for the list.
func (l ListType) Endpoint() string { return listEndpoints[l] }

// ParseLists resolves CLI list names into a target subset. "all" (or an
// empty selection) expands to every list. Unknown names are an error.
func ParseLists(names []string) ([]ListType, error) {
	if len(names) == 0 {
		return AllLists(), nil
	}
	var out []ListType
	seen := map[ListType]bool{}
	for _, name := range names {
		if name == "all" {
			return AllLists(), nil
		}
		lt := ListType(name)
		if _, ok := listEndpoints[lt]; !ok {
			return nil, fmt.Errorf("unknown suppression list %q", name)
		}
		if !seen[lt] {
			seen[lt] = true
			out = append(out, lt)
		}
	}
	return out, nil
}

// SuppressionRecord is one suppression entry as reported by the API,
// labeled with the account and list it came from.
type SuppressionRecord struct {
	Account string
	List    ListType
	Email   string
	Reason  string
	Created string
	Status  string
}

// FirstPresent returns the value of the first candidate key present in the
// record with a non-empty value, rendered as a string. Whole-number JSON
// values (unix timestamps, IDs) are rendered without an exponent.
func FirstPresent(record map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		v, ok := record[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case string:
			if val != "" {
				return val
			}
		case float64:
			if val == math.Trunc(val) {
				return strconv.FormatInt(int64(val), 10)
			}
			return strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(val)
		default:
			return fmt.Sprintf("%v", val)
		}
	}
	return ""
}

// orDefault substitutes "N/A" for empty field values in reports.
func orDefault(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// RecordFromItem builds a SuppressionRecord from a raw API item, trying
// the field names the different lists use.
func RecordFromItem(account string, list ListType, item map[string]interface{}) SuppressionRecord {
	return SuppressionRecord{
		Account: account,
		List:    list,
		Email:   FirstPresent(item, "email", "Email", "address"),
		Reason:  orDefault(FirstPresent(item, "reason")),
		Created: orDefault(FirstPresent(item, "created", "created_at")),
		Status:  orDefault(FirstPresent(item, "status")),
	}
}
