// Package datefilter restricts notes to a modification date range.
//
// All comparisons are made on naive wall-clock times: zone offsets are
// dropped rather than converted, matching how NotePlan and the filesystem
// timestamps are rendered.
package datefilter

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02T15",
}

// Filter holds optional inclusive bounds. The zero value matches everything.
type Filter struct {
	After  *time.Time
	Before *time.Time
}

// Parse builds a Filter from user supplied --after and --before values.
// Each value may be a full ISO-8601 timestamp or a bare YYYY-MM-DD date. A
// bare before date covers the whole day.
func Parse(after, before string) (Filter, error) {
	var f Filter

	if after != "" {
		t, err := parseBound(after, false)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid date format for --after: %s. Use YYYY-MM-DD", after)
		}
		f.After = &t
	}

	if before != "" {
		t, err := parseBound(before, true)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid date format for --before: %s. Use YYYY-MM-DD", before)
		}
		f.Before = &t
	}

	return f, nil
}

// Active reports whether any bound is set.
func (f Filter) Active() bool {
	return f.After != nil || f.Before != nil
}

// Match reports whether modifiedAt falls within the filter. Without bounds
// everything matches; with a bound a missing or unparsable timestamp never
// does.
func (f Filter) Match(modifiedAt *string) bool {
	if !f.Active() {
		return true
	}
	if modifiedAt == nil || *modifiedAt == "" {
		return false
	}

	s := strings.ReplaceAll(*modifiedAt, "Z", "+00:00")
	if i := strings.Index(s, "+"); i >= 0 {
		s = s[:i]
	}

	t, err := parseTimestamp(s)
	if err != nil {
		t, err = time.Parse(dateLayout, s)
		if err != nil {
			return false
		}
	}

	if f.After != nil && t.Before(*f.After) {
		return false
	}
	if f.Before != nil && t.After(*f.Before) {
		return false
	}
	return true
}

// Describe renders the bounds for list headers, e.g. " (after 2025-01-01, before 2025-01-31)".
func (f Filter) Describe() string {
	var parts []string
	if f.After != nil {
		parts = append(parts, "after "+f.After.Format(dateLayout))
	}
	if f.Before != nil {
		parts = append(parts, "before "+f.Before.Format(dateLayout))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// Timestamp renders t's local wall clock as an ISO-8601 string without a
// zone, with microseconds only when they are non-zero.
func Timestamp(t time.Time) string {
	t = t.Local()
	s := t.Format("2006-01-02T15:04:05")
	if us := t.Nanosecond() / 1000; us != 0 {
		s += fmt.Sprintf(".%06d", us)
	}
	return s
}

func parseBound(s string, endOfDay bool) (time.Time, error) {
	if t, err := parseTimestamp(s); err == nil {
		return t, nil
	}

	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	}
	return t, nil
}

// parseTimestamp accepts date-time strings with optional fractional seconds
// and an optional zone suffix, which is discarded.
func parseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}

		t, err = time.Parse(layout+"Z07:00", s)
		if err == nil {
			return wallClock(t), nil
		}
	}
	return time.Time{}, firstErr
}

func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
