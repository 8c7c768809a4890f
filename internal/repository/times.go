package repository

import "time"

// The users database predates this service and stores timestamps as
// TEXT in whatever format its writer used at the time: the original
// backend wrote "2006-01-02 15:04:05.9999999", newer rows are RFC 3339.
// All reads go through parseDBTime so both coexist.
var dbTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// parseDBTime parses a stored timestamp, trying each known layout.
// Unparseable values come back as the zero time, which reads as
// "expired long ago" everywhere expiry is checked.
func parseDBTime(s string) time.Time {
	for _, layout := range dbTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// formatDBTime renders a timestamp for storage.
func formatDBTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
