package scim

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// FilterStats counts what happened to each record during a filter pass.
type FilterStats struct {
	TotalUsers      int
	WithID          int
	WithCreatedDate int
	OlderThanCutoff int
	TooRecent       int
	MissingID       int
	MissingDate     int
	DuplicateIDs    int
}

var userIDKeys = []string{"id", "userId", "user_id", "ID", "UserId", "USER_ID"}

var createdAtKeys = []string{
	"createdAt", "created_at", "createdat", "CREATED_AT",
	"dateCreated", "date_created", "created", "creationDate",
	"creation_date", "timestamp", "createdDate",
}

// LoadUserMetadata reads a user metadata dump. The file may hold a bare
// array of user objects, an object wrapping the list under a users/data/
// results/items key, or a single user object.
func LoadUserMetadata(path string) ([]map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}

	var asList []map[string]interface{}
	if err := json.Unmarshal(raw, &asList); err == nil {
		return asList, nil
	}

	var asObject map[string]interface{}
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return nil, fmt.Errorf("unsupported JSON format in %s", path)
	}

	for _, key := range []string{"users", "data", "results", "items"} {
		wrapped, ok := asObject[key]
		if !ok {
			continue
		}
		switch v := wrapped.(type) {
		case []interface{}:
			users := make([]map[string]interface{}, 0, len(v))
			for _, item := range v {
				if user, ok := item.(map[string]interface{}); ok {
					users = append(users, user)
				}
			}
			return users, nil
		case map[string]interface{}:
			users := make([]map[string]interface{}, 0, len(v))
			for _, item := range v {
				if user, ok := item.(map[string]interface{}); ok {
					users = append(users, user)
				}
			}
			return users, nil
		}
	}

	// No recognized wrapper key: treat the object as a single user.
	return []map[string]interface{}{asObject}, nil
}

// FilterOlderThan returns the unique IDs of users created before cutoff,
// sorted, along with pass statistics. Records missing an ID or a parseable
// creation date are counted and skipped.
func FilterOlderThan(users []map[string]interface{}, cutoff time.Time) ([]string, FilterStats) {
	stats := FilterStats{TotalUsers: len(users)}
	seen := map[string]bool{}
	var ids []string

	for _, user := range users {
		id := extractUserID(user)
		if id == "" {
			stats.MissingID++
			continue
		}
		stats.WithID++

		if seen[id] {
			stats.DuplicateIDs++
			continue
		}
		seen[id] = true

		created, ok := extractCreatedAt(user)
		if !ok {
			stats.MissingDate++
			continue
		}
		stats.WithCreatedDate++

		if created.Before(cutoff) {
			stats.OlderThanCutoff++
			ids = append(ids, id)
		} else {
			stats.TooRecent++
		}
	}

	sort.Strings(ids)
	return ids, stats
}

// WriteUserIDs saves IDs as {"userIds": [...]}, the shape the bulk delete
// step consumes.
func WriteUserIDs(path string, ids []string) error {
	payload := struct {
		UserIDs []string `json:"userIds"`
	}{UserIDs: ids}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding user IDs: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing user IDs: %w", err)
	}
	return nil
}

// ReadUserIDs loads a {"userIds": [...]} file.
func ReadUserIDs(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading user IDs file: %w", err)
	}
	var payload struct {
		UserIDs []string `json:"userIds"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decoding user IDs file: %w", err)
	}
	if len(payload.UserIDs) == 0 {
		return nil, fmt.Errorf("no user IDs found in %s", path)
	}
	return payload.UserIDs, nil
}

func extractUserID(user map[string]interface{}) string {
	for _, key := range userIDKeys {
		v, ok := user[key]
		if !ok || v == nil {
			continue
		}
		switch value := v.(type) {
		case string:
			if value != "" {
				return value
			}
		case float64:
			if value == float64(int64(value)) {
				return fmt.Sprintf("%d", int64(value))
			}
			return fmt.Sprintf("%v", value)
		}
	}
	return ""
}

func extractCreatedAt(user map[string]interface{}) (time.Time, bool) {
	for _, key := range createdAtKeys {
		v, ok := user[key]
		if !ok || v == nil {
			continue
		}
		if t, ok := parseDate(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

var dateLayouts = []string{
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate accepts ISO-8601 strings and Unix timestamps in seconds or
// milliseconds (values above 1e10 are taken as milliseconds).
func parseDate(v interface{}) (time.Time, bool) {
	switch value := v.(type) {
	case float64:
		if value <= 0 {
			return time.Time{}, false
		}
		if value > 1e10 {
			return time.UnixMilli(int64(value)).UTC(), true
		}
		return time.Unix(int64(value), 0).UTC(), true
	case string:
		if value == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, value); err == nil {
				return t.UTC(), true
			}
		}
	}
	return time.Time{}, false
}
