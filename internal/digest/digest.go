// Package digest builds a plain-text daily digest of published events.
package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pfrederiksen/ai-news-events/internal/event"
)

// DefaultMaxEvents caps the number of stories in a digest.
const DefaultMaxEvents = 10

// Digest is a rendered digest ready to print or send
type Digest struct {
	Subject     string   `json:"subject"`
	Text        string   `json:"text"`
	IncludedIDs []string `json:"included_event_ids"`
}

// Build renders a digest for day from events, which must already be ordered
// newest first. At most max events are included; max <= 0 includes none.
func Build(events []*event.Event, day time.Time, max int) *Digest {
	date := day.Format("2006-01-02")
	d := &Digest{
		Subject:     fmt.Sprintf("Daily AI News Digest - %s", date),
		IncludedIDs: make([]string, 0),
	}

	if max < 0 {
		max = 0
	}
	selected := events
	if len(selected) > max {
		selected = selected[:max]
	}

	if len(selected) == 0 {
		d.Text = "No events were published for this digest.\n"
		return d
	}

	// Group events by category, keeping the newest-first order inside each group
	byCategory := make(map[string][]*event.Event)
	for _, evt := range selected {
		byCategory[evt.Category] = append(byCategory[evt.Category], evt)
		d.IncludedIDs = append(d.IncludedIDs, evt.ID)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var b strings.Builder
	fmt.Fprintf(&b, "Daily AI News Digest (%s)\n", date)
	fmt.Fprintf(&b, "%d stor%s\n\n", len(selected), pluralize(len(selected)))

	for _, category := range categories {
		heading := categoryHeading(category)
		b.WriteString(heading + "\n")
		b.WriteString(strings.Repeat("-", utf8.RuneCountInString(heading)) + "\n")

		for _, evt := range byCategory[category] {
			fmt.Fprintf(&b, "* %s [%s] (%s)\n", evt.Title, evt.Location, evt.FormatPublished())
			if evt.Summary != "" {
				fmt.Fprintf(&b, "  %s\n", evt.Summary)
			}
		}
		b.WriteString("\n")
	}

	d.Text = strings.TrimRight(b.String(), "\n") + "\n"
	return d
}

func categoryHeading(category string) string {
	if category == "" {
		return "Uncategorized"
	}
	r, size := utf8.DecodeRuneInString(category)
	return string(unicode.ToUpper(r)) + category[size:]
}

func pluralize(count int) string {
	if count == 1 {
		return "y"
	}
	return "ies"
}
