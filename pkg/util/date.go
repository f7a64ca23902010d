package util

import (
	"strconv"
	"strings"
	"time"
)

// DayLayout is the calendar-day key format used across the pipeline.
const DayLayout = "2006-01-02"

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseTimestamp parses a bar timestamp in loc. Zoneless layouts are
// interpreted in loc; RFC3339 values keep their own offset. Positive integers
// are read as unix seconds.
func ParseTimestamp(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0).In(loc), true
	}
	return time.Time{}, false
}

// SplitDateTime splits "date time" on the first space. The time part is
// empty when s carries no space.
func SplitDateTime(s string) (string, string) {
	s = strings.TrimSpace(s)
	date, clock, _ := strings.Cut(s, " ")
	return date, strings.TrimSpace(clock)
}

// ParseDay parses a YYYY-MM-DD key.
func ParseDay(s string) (time.Time, bool) {
	t, err := time.Parse(DayLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DayKey returns the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DayLayout)
}

// DayBounds returns [start of from, end of to] in loc for inclusive day keys.
// Empty keys leave the corresponding bound zero.
func DayBounds(from, to string, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	var start, end time.Time
	if d, ok := ParseDay(from); ok {
		start = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}
	if d, ok := ParseDay(to); ok {
		end = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return start, end
}
