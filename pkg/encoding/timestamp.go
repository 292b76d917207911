package encoding

import (
	"fmt"
	"time"
)

// TimestampLayout is the exact RFC 3339 second-precision layout this
// protocol uses for every timestamp field: YYYY-MM-DDTHH:MM:SSZ.
const TimestampLayout = "2006-01-02T15:04:05Z"

// FormatTimestamp renders t truncated to second precision with a Z suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(TimestampLayout)
}

// ParseTimestamp parses a protocol timestamp. Fractional seconds, any
// offset other than Z, or a missing Z suffix are rejected.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	// time.Parse accepts a fractional-second field even when the layout
	// has none, so re-render and compare to reject anything non-canonical.
	if t.Format(TimestampLayout) != s {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: not in YYYY-MM-DDTHH:MM:SSZ form", s)
	}
	return t, nil
}
