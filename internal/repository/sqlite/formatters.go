package sqlite

import (
	"time"
)

// TimeLayout is the storage layout for timestamps. It is fixed width and
// always UTC so that text ordering matches chronological ordering.
const TimeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTimeForDB formats a time.Time value for consistent database storage
func FormatTimeForDB(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTimeFromDB parses a stored timestamp. Values written before the
// fixed-width layout was introduced are accepted as RFC3339.
func ParseTimeFromDB(s string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
