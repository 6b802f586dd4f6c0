package event

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTimestamp is returned by Validate when PublishedAt cannot be parsed.
var ErrInvalidTimestamp = errors.New("invalid publishedAt timestamp")

// Event represents a published news event
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	Content     string `json:"content"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	PublishedAt string `json:"publishedAt"` // ISO-8601, kept verbatim for the wire format
}

// NewEvent creates a new Event from its authored fields
func NewEvent(id, title, summary, content, category, location, publishedAt string) *Event {
	return &Event{
		ID:          id,
		Title:       title,
		Summary:     summary,
		Content:     content,
		Category:    category,
		Location:    location,
		PublishedAt: publishedAt,
	}
}

// Validate checks the per-record invariants: a non-empty ID and a parseable
// PublishedAt. Uniqueness of IDs is a collection property and is checked by the store.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return fmt.Errorf("event id is required")
	}
	if _, err := ParsePublishedAt(e.PublishedAt); err != nil {
		return fmt.Errorf("event %s: %w", e.ID, err)
	}
	return nil
}

// Clone returns a copy of the event
func (e *Event) Clone() *Event {
	c := *e
	return &c
}

// CloneAll copies every event in the slice. The result is never nil.
func CloneAll(events []*Event) []*Event {
	out := make([]*Event, 0, len(events))
	for _, evt := range events {
		out = append(out, evt.Clone())
	}
	return out
}
