package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/ai-news-events/internal/client"
	"github.com/pfrederiksen/ai-news-events/internal/event"
	"github.com/pfrederiksen/ai-news-events/internal/store"
)

func newStoreServer(t *testing.T, events []*event.Event, opts ...Option) *Server {
	t.Helper()
	st, err := store.New(events)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	s, err := New(testConfig(), st, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func parseHTML(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func cardIDs(doc *goquery.Document) []string {
	var ids []string
	doc.Find("article.card").Each(func(_ int, s *goquery.Selection) {
		ids = append(ids, s.AttrOr("data-id", ""))
	})
	return ids
}

func TestListPage(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		name         string
		target       string
		wantIDs      []string
		wantFilters  string
		wantResults  string
		wantSelected map[string]string
		wantEmpty    bool
	}{
		{
			name:        "all events",
			target:      "/",
			wantIDs:     []string{"event-1", "event-2", "event-3"},
			wantFilters: "0",
			wantResults: "Showing 3 events across all categories.",
		},
		{
			name:         "single category",
			target:       "/?category=policy",
			wantIDs:      []string{"event-2"},
			wantFilters:  "1",
			wantResults:  "Showing 1 event for your selected filters.",
			wantSelected: map[string]string{"category": "policy"},
		},
		{
			name:         "both filters",
			target:       "/?category=research&location=san-francisco",
			wantIDs:      []string{"event-3"},
			wantFilters:  "2",
			wantResults:  "Showing 1 event for your selected filters.",
			wantSelected: map[string]string{"category": "research", "location": "san-francisco"},
		},
		{
			name:         "no match shows empty state",
			target:       "/?category=policy&location=global",
			wantFilters:  "2",
			wantResults:  "Showing 0 events for your selected filters.",
			wantSelected: map[string]string{"category": "policy", "location": "global"},
			wantEmpty:    true,
		},
		{
			name:         "unknown category still selected",
			target:       "/?category=quantum",
			wantFilters:  "1",
			wantResults:  "Showing 0 events for your selected filters.",
			wantSelected: map[string]string{"category": "quantum"},
			wantEmpty:    true,
		},
		{
			name:        "empty value is all",
			target:      "/?category=",
			wantIDs:     []string{"event-1", "event-2", "event-3"},
			wantFilters: "0",
			wantResults: "Showing 3 events across all categories.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, tt.target, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			doc := parseHTML(t, rec)

			if got := strings.Join(cardIDs(doc), ","); got != strings.Join(tt.wantIDs, ",") {
				t.Errorf("cards = %q, want %v", got, tt.wantIDs)
			}
			if got := doc.Find("#story-count").Text(); got != strconv.Itoa(len(tt.wantIDs)) {
				t.Errorf("story count = %q, want %d", got, len(tt.wantIDs))
			}
			if got := doc.Find("#filter-count").Text(); got != tt.wantFilters {
				t.Errorf("filter count = %q, want %q", got, tt.wantFilters)
			}
			if got := strings.Join(strings.Fields(doc.Find(".results-bar").Text()), " "); got != tt.wantResults {
				t.Errorf("results bar = %q, want %q", got, tt.wantResults)
			}
			if got := doc.Find(".empty").Length() == 1; got != tt.wantEmpty {
				t.Errorf("empty state shown = %v, want %v", got, tt.wantEmpty)
			}

			for _, name := range []string{"category", "location"} {
				selected := doc.Find("select[name=" + name + "] option[selected]")
				want := tt.wantSelected[name]
				if want == "" {
					if selected.Length() != 0 {
						t.Errorf("%s: unexpected selection %q", name, selected.AttrOr("value", ""))
					}
					continue
				}
				if got := selected.AttrOr("value", ""); got != want {
					t.Errorf("%s selected = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestListPage_CardContent(t *testing.T) {
	h := newTestServer(t).Handler()
	doc := parseHTML(t, do(t, h, http.MethodGet, "/?category=policy", nil))

	card := doc.Find("article.card").First()
	if got := card.Find(".pill").First().Text(); got != "policy" {
		t.Errorf("category pill = %q", got)
	}
	if got := card.Find(".pill-muted").Text(); got != "berlin" {
		t.Errorf("location pill = %q", got)
	}
	if got := card.Find("time").AttrOr("datetime", ""); got != "2026-01-05T08:00:00Z" {
		t.Errorf("datetime = %q", got)
	}
	if got := card.Find("time").Text(); got != "Jan 5, 2026, 8:00 AM" {
		t.Errorf("formatted time = %q", got)
	}
	if got := card.Find(".card-title a").AttrOr("href", ""); got != "/view/event-2" {
		t.Errorf("title link = %q", got)
	}
	if !strings.HasPrefix(card.Find(".card-link").Text(), "Explore full coverage") {
		t.Errorf("card link = %q", card.Find(".card-link").Text())
	}
}

func TestDetailPage(t *testing.T) {
	h := newTestServer(t).Handler()

	t.Run("found", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/view/event-3", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		doc := parseHTML(t, rec)
		if got := doc.Find("article h1").Text(); got != "Research team demonstrates lower-cost multimodal training recipe" {
			t.Errorf("title = %q", got)
		}
		if got := doc.Find(".content").Text(); !strings.HasPrefix(got, "Researchers shared") {
			t.Errorf("content = %q", got)
		}
		if got := doc.Find(".calendar-link").AttrOr("href", ""); got != "/events/event-3/calendar.ics" {
			t.Errorf("calendar link = %q", got)
		}
		if got := doc.Find(".back-link").AttrOr("href", ""); got != "/" {
			t.Errorf("back link = %q", got)
		}
	})

	for _, target := range []string{"/view/missing", "/no/such/page"} {
		t.Run("not found "+target, func(t *testing.T) {
			rec := do(t, h, http.MethodGet, target, nil)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
			doc := parseHTML(t, rec)
			if got := doc.Find("h1").Text(); got != "Event not found" {
				t.Errorf("heading = %q", got)
			}
			if got := doc.Find(".not-found a").AttrOr("href", ""); got != "/" {
				t.Errorf("home link = %q", got)
			}
		})
	}
}

func TestDetailPage_SEO(t *testing.T) {
	h := newTestServer(t).Handler()
	doc := parseHTML(t, do(t, h, http.MethodGet, "/view/event-3", nil))

	const (
		title     = "Research team demonstrates lower-cost multimodal training recipe | AI News Publisher"
		canonical = "https://news.example.com/view/event-3"
		summary   = "A new training approach reduces compute requirements while retaining benchmark performance."
	)

	attrs := []struct {
		selector string
		attr     string
		want     string
	}{
		{selector: "title", want: title},
		{selector: `meta[name="description"]`, attr: "content", want: summary},
		{selector: `link[rel="canonical"]`, attr: "href", want: canonical},
		{selector: `meta[property="og:type"]`, attr: "content", want: "article"},
		{selector: `meta[property="og:title"]`, attr: "content", want: title},
		{selector: `meta[property="og:description"]`, attr: "content", want: summary},
		{selector: `meta[property="og:url"]`, attr: "content", want: canonical},
		{selector: `meta[name="twitter:card"]`, attr: "content", want: "summary"},
		{selector: `meta[name="twitter:title"]`, attr: "content", want: title},
		{selector: `meta[name="twitter:description"]`, attr: "content", want: summary},
	}
	for _, tt := range attrs {
		t.Run(tt.selector, func(t *testing.T) {
			sel := doc.Find("head " + tt.selector)
			if sel.Length() != 1 {
				t.Fatalf("found %d elements, want 1", sel.Length())
			}
			got := sel.Text()
			if tt.attr != "" {
				got = sel.AttrOr(tt.attr, "")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("json-ld", func(t *testing.T) {
		var ld map[string]string
		raw := doc.Find(`script[type="application/ld+json"]`).Text()
		if err := json.Unmarshal([]byte(raw), &ld); err != nil {
			t.Fatalf("failed to decode JSON-LD %q: %v", raw, err)
		}
		want := map[string]string{
			"@context":         "https://schema.org",
			"@type":            "NewsArticle",
			"headline":         title,
			"description":      summary,
			"datePublished":    "2026-01-04T18:15:00Z",
			"mainEntityOfPage": canonical,
		}
		for k, v := range want {
			if ld[k] != v {
				t.Errorf("%s = %q, want %q", k, ld[k], v)
			}
		}
	})

	t.Run("list page has no article metadata", func(t *testing.T) {
		doc := parseHTML(t, do(t, h, http.MethodGet, "/", nil))
		if n := doc.Find(`link[rel="canonical"], script[type="application/ld+json"]`).Length(); n != 0 {
			t.Errorf("found %d article tags on the list page", n)
		}
		if got := doc.Find(`meta[name="description"]`).AttrOr("content", ""); got != "Published AI news events" {
			t.Errorf("description = %q", got)
		}
	})
}

func TestBuildSEO_Description(t *testing.T) {
	long := strings.Repeat("é", 200)

	tests := []struct {
		name string
		evt  *event.Event
		want string
	}{
		{name: "summary", evt: &event.Event{ID: "a", Summary: "Short", Content: "Body"}, want: "Short"},
		{name: "falls back to content", evt: &event.Event{ID: "a", Content: "Body"}, want: "Body"},
		{name: "truncated by runes", evt: &event.Event{ID: "a", Summary: long}, want: strings.Repeat("é", 155)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildSEO(tt.evt, "https://news.example.com").Description
			if got != tt.want {
				t.Errorf("Description = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Error("Description is not valid UTF-8")
			}
		})
	}
}

func TestOpaqueIDs(t *testing.T) {
	ids := []string{"q?x", "a/b", "hash#1", "100%"}
	events := make([]*event.Event, 0, len(ids))
	for i, id := range ids {
		events = append(events, &event.Event{
			ID:          id,
			Title:       "Story " + strconv.Itoa(i),
			Category:    "research",
			Location:    "global",
			PublishedAt: "2026-01-0" + strconv.Itoa(i+1) + "T00:00:00Z",
		})
	}
	h := newStoreServer(t, events).Handler()

	doc := parseHTML(t, do(t, h, http.MethodGet, "/", nil))
	links := make(map[string]string)
	doc.Find("article.card").Each(func(_ int, s *goquery.Selection) {
		links[s.AttrOr("data-id", "")] = s.Find(".card-title a").AttrOr("href", "")
	})

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			link, ok := links[id]
			if !ok {
				t.Fatalf("no card for %q", id)
			}

			rec := do(t, h, http.MethodGet, link, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s status = %d, want 200", link, rec.Code)
			}
			if got := parseHTML(t, rec).Find("article.detail").AttrOr("data-id", ""); got != id {
				t.Errorf("detail page for %s shows %q", link, got)
			}

			escaped := strings.TrimPrefix(link, "/view/")
			rec = do(t, h, http.MethodGet, "/events/"+escaped, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("GET /events/%s status = %d, want 200", escaped, rec.Code)
			}
			var evt event.Event
			if err := json.Unmarshal(rec.Body.Bytes(), &evt); err != nil {
				t.Fatalf("failed to decode event: %v", err)
			}
			if evt.ID != id {
				t.Errorf("event id = %q, want %q", evt.ID, id)
			}

			rec = do(t, h, http.MethodGet, "/events/"+escaped+"/calendar.ics", nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("calendar status = %d, want 200", rec.Code)
			}
			if got := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(got, "attachment; filename") {
				t.Errorf("Content-Disposition = %q", got)
			}
		})
	}

	if rec := do(t, h, http.MethodGet, "/events/a%2Fc", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown escaped id status = %d, want 404", rec.Code)
	}
}

func TestListPage_NonASCIIFilterLabel(t *testing.T) {
	h := newTestServer(t).Handler()
	doc := parseHTML(t, do(t, h, http.MethodGet, "/?category=%C3%BCber-stadt", nil))

	opt := doc.Find(`select[name="category"] option[selected]`)
	if got := opt.AttrOr("value", ""); got != "über-stadt" {
		t.Errorf("selected value = %q", got)
	}
	if got := opt.Text(); got != "Über Stadt" {
		t.Errorf("label = %q, want %q", got, "Über Stadt")
	}
}

func TestPages_RemoteSource(t *testing.T) {
	backend := httptest.NewServer(newTestServer(t).Handler())
	t.Cleanup(backend.Close)

	empty, err := store.New(nil)
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	front, err := New(testConfig(), empty, WithSource(client.New(backend.URL, client.WithHTTPClient(backend.Client()))))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h := front.Handler()

	doc := parseHTML(t, do(t, h, http.MethodGet, "/?location=berlin", nil))
	if got := strings.Join(cardIDs(doc), ","); got != "event-2" {
		t.Errorf("cards = %q, want event-2", got)
	}

	rec := do(t, h, http.MethodGet, "/view/event-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc = parseHTML(t, rec)
	if got := doc.Find(".calendar-link").AttrOr("href", ""); got != backend.URL+"/events/event-1/calendar.ics" {
		t.Errorf("calendar link = %q", got)
	}

	if rec := do(t, h, http.MethodGet, "/view/missing", nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", rec.Code)
	}
}

func TestListPage_RemoteFilterOptions(t *testing.T) {
	backend := httptest.NewServer(newStoreServer(t, []*event.Event{
		{ID: "remote-1", Title: "Robots", Category: "robotics", Location: "tokyo", PublishedAt: "2026-01-05T00:00:00Z"},
	}).Handler())
	t.Cleanup(backend.Close)

	front := newStoreServer(t, []*event.Event{
		{ID: "local-1", Title: "Local", Category: "local-only", Location: "nowhere", PublishedAt: "2026-01-05T00:00:00Z"},
	}, WithSource(client.New(backend.URL, client.WithHTTPClient(backend.Client()))))

	doc := parseHTML(t, do(t, front.Handler(), http.MethodGet, "/", nil))
	values := func(name string) []string {
		var out []string
		doc.Find(`select[name="` + name + `"] option`).Each(func(_ int, s *goquery.Selection) {
			out = append(out, s.AttrOr("value", ""))
		})
		return out
	}

	tests := []struct {
		name    string
		want    string
		notWant string
	}{
		{name: "category", want: "robotics", notWant: "local-only"},
		{name: "location", want: "tokyo", notWant: "nowhere"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(values(tt.name), ",")
			if !strings.Contains(got, tt.want) {
				t.Errorf("options %q missing %q", got, tt.want)
			}
			if strings.Contains(got, tt.notWant) {
				t.Errorf("options %q include local value %q", got, tt.notWant)
			}
		})
	}
}

func TestPages_UnreachableSource(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	s := newTestServer(t, WithSource(client.New(deadURL)))
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	doc := parseHTML(t, rec)
	if doc.Find(".empty").Length() != 1 {
		t.Error("expected empty state when the source is unreachable")
	}

	if rec := do(t, h, http.MethodGet, "/view/event-1", nil); rec.Code != http.StatusNotFound {
		t.Errorf("detail status = %d, want 404", rec.Code)
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "san-francisco", want: "San Francisco"},
		{in: "new_york", want: "New York"},
		{in: "über-stadt", want: "Über Stadt"},
		{in: "éthique", want: "Éthique"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := humanize(tt.in)
			if got != tt.want {
				t.Errorf("humanize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("humanize(%q) is not valid UTF-8", tt.in)
			}
		})
	}
}

func TestSelectOptions(t *testing.T) {
	got := selectOptions(knownLocations, []string{"global", "new-york"}, "new-york")

	want := []option{
		{Value: "global", Label: "Global"},
		{Value: "berlin", Label: "Berlin"},
		{Value: "san-francisco", Label: "San Francisco"},
		{Value: "new-york", Label: "New York", Selected: true},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("option[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
