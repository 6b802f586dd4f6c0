// Package client reads events from a running ai-news-events server over HTTP.
//
// It mirrors how the web front end talks to the JSON API: ListEvents and
// GetEvent never fail, degrading to an empty list or "not found" on any
// transport or decoding problem, while FetchEvents and FetchEvent return the
// underlying error for callers (such as the CLI) that must report it.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/ai-news-events/internal/event"
	"github.com/pfrederiksen/ai-news-events/internal/filter"
	"github.com/pfrederiksen/ai-news-events/internal/logger"
)

const (
	UserAgent      = "ai-news-events-client/1.0"
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 4 << 20
)

// ErrNotFound is returned by FetchEvent when the server answers 404.
var ErrNotFound = errors.New("event not found")

// Client is an HTTP client for the events API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// New creates a client for the API rooted at baseURL.
// An empty baseURL leaves request targets relative (see URL).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL prefixes path with the base URL. With no base URL the path is returned
// unchanged, i.e. relative to the current origin.
func (c *Client) URL(path string) string {
	if c.baseURL == "" {
		return path
	}
	return c.baseURL + path
}

// ListEvents fetches the events matching q, newest first.
// Any failure is logged and yields an empty slice.
func (c *Client) ListEvents(ctx context.Context, q filter.Query) []*event.Event {
	events, err := c.FetchEvents(ctx, q)
	if err != nil {
		logger.Warn("listing events failed, showing none", logger.Fields{
			"base_url": c.baseURL,
			"filters":  q.String(),
		})
		logger.Debug("list events error", logger.Fields{"error": err.Error()})
		return []*event.Event{}
	}
	return events
}

// GetEvent fetches one event. The boolean is false when the event does not
// exist or could not be retrieved.
func (c *Client) GetEvent(ctx context.Context, id string) (*event.Event, bool) {
	evt, err := c.FetchEvent(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("fetching event failed, treating as not found", logger.Fields{
				"base_url": c.baseURL,
				"id":       id,
				"error":    err.Error(),
			})
		}
		return nil, false
	}
	return evt, true
}

// FetchEvents fetches the events matching q and reports failures.
func (c *Client) FetchEvents(ctx context.Context, q filter.Query) ([]*event.Event, error) {
	target := c.URL("/events")
	if values := q.Values(); len(values) > 0 {
		target += "?" + values.Encode()
	}

	var events []*event.Event
	if err := c.getJSON(ctx, target, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*event.Event{}
	}
	return events, nil
}

// FetchEvent fetches one event by ID. Returns ErrNotFound on 404.
func (c *Client) FetchEvent(ctx context.Context, id string) (*event.Event, error) {
	var evt event.Event
	if err := c.getJSON(ctx, c.URL("/events/"+url.PathEscape(id)), &evt); err != nil {
		return nil, err
	}
	return &evt, nil
}

// getJSON performs a GET and decodes a 200 response into out
func (c *Client) getJSON(ctx context.Context, target string, out interface{}) error {
	if c.baseURL == "" {
		return fmt.Errorf("no API base URL configured for %s", target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("events API error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}

	return nil
}
