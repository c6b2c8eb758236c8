package model

import "time"

const (
	// DateLayout is the accepted and returned calendar date format.
	DateLayout = "2006-01-02"
	// TimestampLayout is the stored and returned timestamp format.
	TimestampLayout = "2006-01-02 15:04:05"
)

// FormatTimestamp renders t the way timestamps are stored.
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}
