package event

import (
	"fmt"
	"sort"
	"time"
)

// publishedLayouts lists the ISO-8601 shapes accepted for PublishedAt.
var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05", // no zone, treated as UTC
	"2006-01-02",
}

// ParsePublishedAt parses an ISO-8601 timestamp into a UTC time.Time.
func ParsePublishedAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty", ErrInvalidTimestamp)
	}

	for _, layout := range publishedLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

// PublishedTime returns the parsed publication time.
// Returns time.Time{} (zero value) if parsing fails.
func (e *Event) PublishedTime() time.Time {
	t, err := ParsePublishedAt(e.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatPublished renders the publication time for display, e.g. "Jan 5, 2026, 10:30 AM".
// Falls back to the raw PublishedAt text when it cannot be parsed.
func (e *Event) FormatPublished() string {
	t := e.PublishedTime()
	if t.IsZero() {
		return e.PublishedAt
	}
	return t.Format("Jan 2, 2006, 3:04 PM")
}

// SortNewestFirst sorts events by publication time, most recent first.
// The sort is stable, so exact ties keep their input order.
// Events with unparseable timestamps go to the end.
func SortNewestFirst(events []*Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return newerThan(events[i], events[j])
	})
}

// newerThan reports whether a should be listed before b
func newerThan(a, b *Event) bool {
	ta := a.PublishedTime()
	tb := b.PublishedTime()

	// If only one date is valid, put the valid one first
	if ta.IsZero() || tb.IsZero() {
		return !ta.IsZero() && tb.IsZero()
	}

	return ta.After(tb)
}
