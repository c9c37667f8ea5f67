// Package derive turns raw platform records into the semantic view fields
// the console renders. Every function is pure and total: malformed input
// degrades to a documented default instead of an error.
package derive

import (
	"fmt"
	"strings"
	"time"

	"github.com/joulepoint/fleet-console/internal/model"
)

const (
	// Devices reporting within this window count as online.
	recentWindow = 24 * time.Hour
	// Beyond this window a device is considered stale.
	staleWindow = 72 * time.Hour

	defaultOverageThreshold = 0.9
)

// ParseTimestamp parses a platform timestamp, nil when missing or malformed.
// Some backend records omit the timezone offset; those are read as UTC.
func ParseTimestamp(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		ts, err = time.ParseInLocation("2006-01-02T15:04:05", raw, time.UTC)
		if err != nil {
			return nil
		}
	}
	v := ts.UTC()
	return &v
}

// ClassifyHealth maps a last-communication timestamp to a health band.
// Missing or unparseable timestamps classify as critical.
func ClassifyHealth(lastCommunicationAt string, now time.Time) model.Health {
	ts := ParseTimestamp(lastCommunicationAt)
	if ts == nil {
		return model.HealthCritical
	}
	age := now.Sub(*ts)
	switch {
	case age > staleWindow:
		return model.HealthCritical
	case age > recentWindow:
		return model.HealthWarning
	default:
		return model.HealthGood
	}
}

// FormatAgo renders a timestamp as a coarse relative age: "12m ago",
// "3h ago", "2d ago". Missing or unparseable input renders as an em dash.
func FormatAgo(raw string, now time.Time) string {
	ts := ParseTimestamp(raw)
	if ts == nil {
		return "—"
	}
	age := now.Sub(*ts)
	if age < 0 {
		age = 0
	}
	minutes := int64(age / time.Minute)
	if minutes < 60 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh ago", hours)
	}
	return fmt.Sprintf("%dd ago", hours/24)
}

// ReportedRecently reports whether the device communicated within the
// recent window. Unparseable timestamps never count.
func ReportedRecently(lastCommunicationAt string, now time.Time) bool {
	ts := ParseTimestamp(lastCommunicationAt)
	return ts != nil && now.Sub(*ts) <= recentWindow
}
