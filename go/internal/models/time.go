package models

import (
	"strings"
	"time"
)

// Timestamp is a time.Time that tolerates the backend's naive UTC strings.
// The exercise server serializes datetimes without a timezone suffix
// ("2024-01-01T00:05:00"); those are UTC and must not be interpreted in the
// client's local zone.
type Timestamp struct {
	time.Time
}

// ParseServerTime parses a backend timestamp string as UTC, appending a "Z"
// when the string carries no timezone marker.
func ParseServerTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if !hasZoneSuffix(s) {
		if t, err := time.Parse(time.RFC3339Nano, s+"Z"); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Parse(time.RFC3339Nano, s)
}

func hasZoneSuffix(s string) bool {
	if strings.HasSuffix(s, "Z") {
		return true
	}
	// A "+hh:mm" / "-hh:mm" offset follows the seconds field; a bare date-time
	// has its only '-' characters in the date part before the 'T'.
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		rest := s[i+1:]
		return strings.ContainsAny(rest, "+-")
	}
	return false
}

// UnmarshalJSON accepts RFC3339 strings with or without a timezone suffix,
// plus JSON null for absent values.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := ParseServerTime(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON emits RFC3339 UTC, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// NewTimestamp wraps a time.Time.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}
