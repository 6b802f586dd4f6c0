package web

import (
	"github.com/pfrederiksen/ai-news-events/internal/calendar"
	"github.com/pfrederiksen/ai-news-events/internal/event"
)

const (
	siteName = "AI News Publisher"

	// descriptionLimit is the length search engines show in result snippets.
	descriptionLimit = 155
)

// seoMeta is the search and social metadata of an event detail page
type seoMeta struct {
	Title        string
	Description  string
	CanonicalURL string
	JSONLD       newsArticle
}

// newsArticle is the schema.org NewsArticle rendered as JSON-LD
type newsArticle struct {
	Context          string `json:"@context"`
	Type             string `json:"@type"`
	Headline         string `json:"headline"`
	Description      string `json:"description"`
	DatePublished    string `json:"datePublished"`
	MainEntityOfPage string `json:"mainEntityOfPage"`
}

func buildSEO(evt *event.Event, siteURL string) *seoMeta {
	title := evt.Title + " | " + siteName
	description := evt.Summary
	if description == "" {
		description = evt.Content
	}
	description = truncateRunes(description, descriptionLimit)
	canonical := calendar.DetailURL(siteURL, evt.ID)

	return &seoMeta{
		Title:        title,
		Description:  description,
		CanonicalURL: canonical,
		JSONLD: newsArticle{
			Context:          "https://schema.org",
			Type:             "NewsArticle",
			Headline:         title,
			Description:      description,
			DatePublished:    evt.PublishedAt,
			MainEntityOfPage: canonical,
		},
	}
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
