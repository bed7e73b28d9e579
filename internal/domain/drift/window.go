package drift

import (
	"fmt"
	"strings"
	"time"
)

// timestampLayouts cover the formats seen in note feeds: ISO-8601 with a
// "T" or space separator, with or without sub-minute precision. No timezone
// is assumed.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseTimestamp parses a note timestamp. The "T" separator is normalized
// to a space first, matching how the feeds interchange the two.
func parseTimestamp(ts string) (time.Time, error) {
	normalized := strings.Replace(strings.TrimSpace(ts), "T", " ", 1)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, normalized); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", ts)
}

// withinWindow reports whether two note timestamps are within the window.
// Unparseable timestamps make the pair incomparable: false, never an error.
func withinWindow(ts1, ts2 string, window time.Duration) bool {
	t1, err := parseTimestamp(ts1)
	if err != nil {
		return false
	}
	t2, err := parseTimestamp(ts2)
	if err != nil {
		return false
	}
	delta := t1.Sub(t2)
	if delta < 0 {
		delta = -delta
	}
	return delta <= window
}

// formatTimeDiff renders the gap between two notes as a human string:
// under an hour in minutes, under a day in hours, otherwise days. Values
// truncate rather than round, so a 90 minute gap is "1 hours".
func formatTimeDiff(ts1, ts2 string) string {
	t1, err := parseTimestamp(ts1)
	if err != nil {
		return "unknown"
	}
	t2, err := parseTimestamp(ts2)
	if err != nil {
		return "unknown"
	}
	delta := t1.Sub(t2)
	if delta < 0 {
		delta = -delta
	}

	hours := delta.Hours()
	switch {
	case hours < 1:
		return fmt.Sprintf("%d minutes", int(delta.Minutes()))
	case hours < 24:
		return fmt.Sprintf("%d hours", int(hours))
	default:
		return fmt.Sprintf("%d days", int(hours/24))
	}
}

// maxTimestamp returns the lexicographically greater of two timestamp
// strings, the alert sort key.
func maxTimestamp(ts1, ts2 string) string {
	if ts1 > ts2 {
		return ts1
	}
	return ts2
}
