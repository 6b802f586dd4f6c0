package store

import (
	"errors"
	"fmt"

	"github.com/pfrederiksen/ai-news-events/internal/event"
	"github.com/pfrederiksen/ai-news-events/internal/filter"
)

// ErrDuplicateID is returned by New when two events share an ID.
var ErrDuplicateID = errors.New("duplicate event id")

// Store is an immutable, ordered collection of events
type Store struct {
	events []*event.Event
	byID   map[string]*event.Event
}

// New creates a Store from the given events.
// The input is copied and validated; a record with an empty ID, an unparseable
// publishedAt, or an ID already seen makes construction fail.
func New(events []*event.Event) (*Store, error) {
	s := &Store{
		events: make([]*event.Event, 0, len(events)),
		byID:   make(map[string]*event.Event, len(events)),
	}

	for i, evt := range events {
		if evt == nil {
			return nil, fmt.Errorf("event %d is nil", i)
		}
		if err := evt.Validate(); err != nil {
			return nil, fmt.Errorf("validating event %d: %w", i, err)
		}
		if _, exists := s.byID[evt.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, evt.ID)
		}

		c := evt.Clone()
		s.events = append(s.events, c)
		s.byID[c.ID] = c
	}

	return s, nil
}

// ListEvents returns every event matching q, most recent first.
// An empty result is a normal outcome; the returned slice is never nil and
// holds copies of the stored events.
func (s *Store) ListEvents(q filter.Query) []*event.Event {
	matched := event.CloneAll(q.Apply(s.events))
	event.SortNewestFirst(matched)
	return matched
}

// GetEvent looks up an event by exact ID.
// The boolean is false when no event has that ID.
func (s *Store) GetEvent(id string) (*event.Event, bool) {
	evt, exists := s.byID[id]
	if !exists {
		return nil, false
	}
	return evt.Clone(), true
}

// Len returns the number of events in the store
func (s *Store) Len() int {
	return len(s.events)
}

// Categories returns the distinct category values in first-seen order.
func (s *Store) Categories() []string {
	return s.distinct(func(e *event.Event) string { return e.Category })
}

// Locations returns the distinct location values in first-seen order.
func (s *Store) Locations() []string {
	return s.distinct(func(e *event.Event) string { return e.Location })
}

func (s *Store) distinct(field func(*event.Event) string) []string {
	seen := make(map[string]bool)
	values := make([]string, 0)
	for _, evt := range s.events {
		v := field(evt)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}
