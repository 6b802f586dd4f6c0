package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/ai-news-events/internal/event"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByTitle    SortOrder = "title"
	SortByCategory SortOrder = "category"
)

func parseSortOrder(value string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(value)))
	switch order {
	case SortByDate, SortByTitle, SortByCategory:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'title' or 'category')", value)
	}
}

// sortEvents sorts a slice of events based on the specified sort order.
// Ties fall back to newest first.
func sortEvents(events []*event.Event, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		event.SortNewestFirst(events)
	case SortByCategory:
		sort.SliceStable(events, func(i, j int) bool {
			if events[i].Category != events[j].Category {
				return events[i].Category < events[j].Category
			}
			return compareByDate(events[i], events[j])
		})
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			ti, tj := strings.ToLower(events[i].Title), strings.ToLower(events[j].Title)
			if ti != tj {
				return ti < tj
			}
			return compareByDate(events[i], events[j])
		})
	}
}

// compareByDate returns true if event i should come before event j
func compareByDate(i, j *event.Event) bool {
	dateI := i.PublishedTime()
	dateJ := j.PublishedTime()

	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.After(dateJ)
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() {
		return true
	}
	return false
}
