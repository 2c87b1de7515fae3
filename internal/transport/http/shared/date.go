package shared

import "time"

const dateOnly = "2006-01-02"

// ParseDate reads the wire format for calendar fields: plain
// YYYY-MM-DD, or a full RFC3339 timestamp. Empty input parses to the
// zero time so callers can treat the field as absent.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(dateOnly, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}
