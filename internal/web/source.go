package web

import (
	"context"

	"github.com/pfrederiksen/ai-news-events/internal/event"
	"github.com/pfrederiksen/ai-news-events/internal/filter"
	"github.com/pfrederiksen/ai-news-events/internal/store"
)

// Source is where the HTML pages read events from.
// Implementations never fail: an unavailable backend yields an empty list or
// "not found". *client.Client satisfies it directly.
type Source interface {
	ListEvents(ctx context.Context, q filter.Query) []*event.Event
	GetEvent(ctx context.Context, id string) (*event.Event, bool)
}

// StoreSource adapts a *store.Store to Source
type StoreSource struct {
	Store *store.Store
}

// ListEvents implements Source
func (s StoreSource) ListEvents(_ context.Context, q filter.Query) []*event.Event {
	return s.Store.ListEvents(q)
}

// GetEvent implements Source
func (s StoreSource) GetEvent(_ context.Context, id string) (*event.Event, bool) {
	return s.Store.GetEvent(id)
}
