package scraper

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/ai-news-events/internal/event"
	"github.com/pfrederiksen/ai-news-events/internal/logger"
)

const (
	UserAgent = "ai-news-events-scraper/1.0"
	Timeout   = 30 * time.Second

	// DefaultCategory and DefaultLocation apply when a feed does not set them.
	DefaultCategory = "general"
	DefaultLocation = "global"

	maxFeedBytes   = 8 << 20
	maxSummaryRune = 280
)

// Feed is one RSS source
type Feed struct {
	URL        string
	SourceName string // shown in logs and errors; defaults to URL
	Category   string
	Location   string
}

func (f Feed) name() string {
	if f.SourceName != "" {
		return f.SourceName
	}
	return f.URL
}

// Scraper handles fetching and parsing RSS feeds
type Scraper struct {
	client *http.Client
	now    func() time.Time
}

// Option configures a Scraper
type Option func(*Scraper)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Scraper) {
		s.client = hc
	}
}

// New creates a new Scraper instance
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchEvents fetches every feed concurrently and returns their events,
// deduplicated by ID and sorted newest first. A feed that fails is logged and
// skipped; an error is returned only when every feed fails.
func (s *Scraper) FetchEvents(ctx context.Context, feeds []Feed) ([]*event.Event, error) {
	if len(feeds) == 0 {
		return nil, errors.New("no feeds configured")
	}

	results := make([][]*event.Event, len(feeds))
	errs := make([]error, len(feeds))

	var wg sync.WaitGroup
	for i, feed := range feeds {
		wg.Add(1)
		go func(i int, feed Feed) {
			defer wg.Done()
			results[i], errs[i] = s.fetchFeed(ctx, feed)
			if errs[i] != nil {
				errs[i] = fmt.Errorf("%s: %w", feed.name(), errs[i])
			}
		}(i, feed)
	}
	wg.Wait()

	failed := 0
	seen := make(map[string]bool)
	events := make([]*event.Event, 0)
	for i, feed := range feeds {
		if errs[i] != nil {
			failed++
			logger.Warn("feed fetch failed", logger.Fields{"source": feed.name(), "url": feed.URL, "error": errs[i].Error()})
			continue
		}
		logger.Debug("feed fetched", logger.Fields{"source": feed.name(), "url": feed.URL, "items": len(results[i])})
		for _, evt := range results[i] {
			if seen[evt.ID] {
				continue
			}
			seen[evt.ID] = true
			events = append(events, evt)
		}
	}

	if failed == len(feeds) {
		return nil, fmt.Errorf("all %d feeds failed: %w", failed, errors.Join(errs...))
	}

	event.SortNewestFirst(events)
	return events, nil
}

func (s *Scraper) fetchFeed(ctx context.Context, feed Feed) ([]*event.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return s.parseFeed(io.LimitReader(resp.Body, maxFeedBytes), feed)
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Date        string `xml:"http://purl.org/dc/elements/1.1/ date"`
}

// rssDocument covers RSS 2.0 (items under channel) and RSS 1.0 (items at the root)
type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
	Items []rssItem `xml:"item"`
}

// parseFeed extracts events from RSS XML
func (s *Scraper) parseFeed(r io.Reader, feed Feed) ([]*event.Event, error) {
	var doc rssDocument
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	category := strings.ToLower(strings.TrimSpace(feed.Category))
	if category == "" {
		category = DefaultCategory
	}
	location := strings.ToLower(strings.TrimSpace(feed.Location))
	if location == "" {
		location = DefaultLocation
	}

	items := append(doc.Channel.Items, doc.Items...)
	events := make([]*event.Event, 0, len(items))
	for _, item := range items {
		title := cleanText(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" {
			continue
		}

		content := cleanText(item.Description)
		if content == "" {
			content = title
		}

		published := parseDate(item.PubDate, s.now)
		if item.PubDate == "" && item.Date != "" {
			published = parseDate(item.Date, s.now)
		}

		events = append(events, event.NewEvent(
			eventID(link),
			title,
			truncate(content, maxSummaryRune),
			content,
			category,
			location,
			published.Format(time.RFC3339),
		))
	}

	return events, nil
}

// eventID derives a stable ID from the item link
func eventID(link string) string {
	sum := sha1.Sum([]byte(link))
	return "evt-" + hex.EncodeToString(sum[:])[:16]
}

// cleanText strips markup and collapses whitespace
func cleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// parseDate reads RFC 822 dates as used by RSS, or RFC 3339 dates as used by
// Dublin Core. Missing or unparseable dates become the current time.
func parseDate(value string, now func() time.Time) time.Time {
	value = strings.TrimSpace(value)
	if value != "" {
		if t, err := mail.ParseDate(value); err == nil {
			return t.UTC()
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t.UTC()
		}
	}
	return now().UTC().Truncate(time.Second)
}

// truncate shortens s to at most n runes, cutting at a word boundary
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "..."
}
