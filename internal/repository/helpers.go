package repository

import (
	"encoding/json"
	"fmt"
	"time"
)

// timeLayout is used for every timestamp column.
const timeLayout = time.RFC3339Nano

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// timeToString formats t in UTC for SQLite storage.
func timeToString(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp, naming the column on failure.
func parseTime(column, s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s: %w", column, err)
	}
	return t, nil
}

// jsonText encodes v for a TEXT column. Nil slices are stored as "[]".
func jsonText(v any) (string, error) {
	if s, ok := v.([]string); ok && s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeStrings decodes a JSON string array column. Empty text yields nil.
func decodeStrings(column, s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", column, err)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}
