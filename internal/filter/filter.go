// Package filter provides facet filtering for published events.
//
// A Query narrows an event listing by two optional facets:
//   - Category (exact, case-sensitive match)
//   - Location (exact, case-sensitive match)
//
// An absent facet is a nil pointer and matches every event. A facet whose value
// does not occur in the data is not an error; it simply matches nothing.
//
// Example usage:
//
//	q := filter.Query{Category: filter.String("research")}
//	matched := q.Apply(events)
//	link := "/?" + q.Values().Encode()
package filter

import (
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"

	"github.com/pfrederiksen/ai-news-events/internal/event"
)

// Query represents the facet filters for an event listing
type Query struct {
	Category *string `json:"category,omitempty" url:"category,omitempty"`
	Location *string `json:"location,omitempty" url:"location,omitempty"`
}

// String returns a pointer to s, for building a Query inline.
func String(s string) *string {
	return &s
}

// FromValues builds a Query from request parameters.
// A parameter that is missing or submitted empty (the "All" option of the
// filter form) is treated as absent.
func FromValues(values url.Values) Query {
	return Query{
		Category: optional(values.Get("category")),
		Location: optional(values.Get("location")),
	}
}

// New builds a Query from two plain strings, treating "" as absent.
func New(category, location string) Query {
	return Query{
		Category: optional(category),
		Location: optional(location),
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// IsEmpty checks if the query has any active facet.
// Returns true if the query would match all events.
func (q Query) IsEmpty() bool {
	return q.Category == nil && q.Location == nil
}

// ActiveCount returns the number of supplied facets.
func (q Query) ActiveCount() int {
	n := 0
	if q.Category != nil {
		n++
	}
	if q.Location != nil {
		n++
	}
	return n
}

// CategoryValue returns the category facet, or "" when absent.
func (q Query) CategoryValue() string {
	if q.Category == nil {
		return ""
	}
	return *q.Category
}

// LocationValue returns the location facet, or "" when absent.
func (q Query) LocationValue() string {
	if q.Location == nil {
		return ""
	}
	return *q.Location
}

// Matches checks if an event satisfies every supplied facet.
// An empty query matches all events.
func (q Query) Matches(evt *event.Event) bool {
	if q.Category != nil && evt.Category != *q.Category {
		return false
	}

	if q.Location != nil && evt.Location != *q.Location {
		return false
	}

	return true
}

// Apply returns the events matching the query, in input order.
// The result is always a new, non-nil slice, so callers may reorder it freely.
func (q Query) Apply(events []*event.Event) []*event.Event {
	filtered := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if q.Matches(evt) {
			filtered = append(filtered, evt)
		}
	}

	return filtered
}

// Values encodes the supplied facets as URL query parameters.
func (q Query) Values() url.Values {
	values, err := query.Values(q)
	if err != nil {
		// Query only holds string pointers, which always encode.
		return url.Values{}
	}
	return values
}

// String returns a human-readable description of the active facets.
// Format: "Category: research | Location: berlin"
func (q Query) String() string {
	if q.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if q.Category != nil {
		parts = append(parts, "Category: "+*q.Category)
	}

	if q.Location != nil {
		parts = append(parts, "Location: "+*q.Location)
	}

	return strings.Join(parts, " | ")
}
