// Package timefmt renders service timestamps for display. Every function is
// tolerant of malformed input and answers "N/A" instead of failing.
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const NotAvailable = "N/A"

var zonelessLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var errNoTime = errors.New("timestamp has no time component")

// Parse reads an ISO-8601 timestamp. Timestamps without a zone are read in loc.
func Parse(ts string, loc *time.Location) (time.Time, error) {
	ts = strings.TrimSpace(ts)
	if !strings.Contains(ts, "T") {
		return time.Time{}, errNoTime
	}
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	var lastErr error
	for _, layout := range zonelessLayouts {
		t, err := time.ParseInLocation(layout, ts, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", ts, lastErr)
}

// ClockTime renders ts as HH:MM in the local zone.
func ClockTime(ts string) string {
	return ClockTimeIn(ts, time.Local)
}

func ClockTimeIn(ts string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t, err := Parse(ts, loc)
	if err != nil {
		return NotAvailable
	}
	return t.In(loc).Format("15:04")
}

// Duration renders arrival minus departure as "<H>h <M>m", floored to whole
// minutes. Arrival before departure is clamped to "0h 0m".
func Duration(departure, arrival string) string {
	dep, err := Parse(departure, time.UTC)
	if err != nil {
		return NotAvailable
	}
	arr, err := Parse(arrival, time.UTC)
	if err != nil {
		return NotAvailable
	}
	d := arr.Sub(dep)
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
