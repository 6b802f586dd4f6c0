// Package calendar exports events as iCalendar (RFC 5545) documents.
package calendar

import (
	"fmt"
	"net/url"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/pfrederiksen/ai-news-events/internal/event"
)

const (
	productID = "-//AI News Publisher//ai-news-events//EN"
	uidDomain = "ai-news-events"

	// eventDuration is the block shown in calendar apps for a published event.
	eventDuration = time.Hour
)

// GenerateICS generates an iCalendar document for a single event.
// siteURL, when non-empty, is used to link back to the event's detail page.
func GenerateICS(evt *event.Event, siteURL string) (string, error) {
	cal := newCalendar()
	if err := addEvent(cal, evt, siteURL, time.Now().UTC()); err != nil {
		return "", err
	}
	return cal.Serialize(), nil
}

// GenerateFeedICS generates one iCalendar document holding every event, named name.
// An empty event list still yields a valid, empty calendar.
func GenerateFeedICS(events []*event.Event, name, siteURL string) (string, error) {
	cal := newCalendar()
	if name != "" {
		cal.SetName(name)
	}

	now := time.Now().UTC()
	for _, evt := range events {
		if err := addEvent(cal, evt, siteURL, now); err != nil {
			return "", err
		}
	}
	return cal.Serialize(), nil
}

func newCalendar() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	return cal
}

// addEvent appends one VEVENT starting at the event's publication time.
func addEvent(cal *ical.Calendar, evt *event.Event, siteURL string, stamp time.Time) error {
	start, err := event.ParsePublishedAt(evt.PublishedAt)
	if err != nil {
		return fmt.Errorf("event %s: %w", evt.ID, err)
	}

	vevent := cal.AddEvent(fmt.Sprintf("%s@%s", evt.ID, uidDomain))
	vevent.SetDtStampTime(stamp)
	vevent.SetStartAt(start)
	vevent.SetEndAt(start.Add(eventDuration))
	vevent.SetSummary(evt.Title)
	if evt.Summary != "" {
		vevent.SetDescription(evt.Summary)
	}
	if evt.Location != "" {
		vevent.SetLocation(evt.Location)
	}
	if evt.Category != "" {
		vevent.SetProperty(ical.ComponentProperty("CATEGORIES"), evt.Category)
	}
	if siteURL != "" {
		vevent.SetURL(DetailURL(siteURL, evt.ID))
	}

	return nil
}

// DetailURL returns the absolute URL of an event's detail page.
func DetailURL(siteURL, id string) string {
	return fmt.Sprintf("%s/view/%s", siteURL, url.PathEscape(id))
}
