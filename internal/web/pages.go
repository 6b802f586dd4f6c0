package web

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/ai-news-events/internal/event"
	"github.com/pfrederiksen/ai-news-events/internal/filter"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	funcs := template.FuncMap{
		"plural": func(n int, one, many string) string {
			if n == 1 {
				return one
			}
			return many
		},
		"pathEscape": url.PathEscape,
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// option is one entry of a filter select
type option struct {
	Value    string
	Label    string
	Selected bool
}

// Known filter values, in display order. Other values seen in the events are
// appended after them.
var (
	knownCategories = []option{
		{Value: "product", Label: "Product"},
		{Value: "research", Label: "Research"},
		{Value: "policy", Label: "Policy"},
	}
	knownLocations = []option{
		{Value: "global", Label: "Global"},
		{Value: "berlin", Label: "Berlin"},
		{Value: "san-francisco", Label: "San Francisco"},
	}
)

type listView struct {
	Title         string
	SEO           *seoMeta
	Events        []*event.Event
	Count         int
	ActiveFilters int
	Categories    []option
	Locations     []option
}

type detailView struct {
	Title       string
	SEO         *seoMeta
	Event       *event.Event
	CalendarURL string
}

type notFoundView struct {
	Title string
	SEO   *seoMeta
}

// listPage renders GET /.
func (s *Server) listPage(c *gin.Context) {
	q := filter.FromValues(c.Request.URL.Query())
	events := s.source.ListEvents(c.Request.Context(), q)
	categories, locations := s.filterValues(events)

	c.HTML(http.StatusOK, "list.html", listView{
		Events:        events,
		Count:         len(events),
		ActiveFilters: q.ActiveCount(),
		Categories:    selectOptions(knownCategories, categories, q.CategoryValue()),
		Locations:     selectOptions(knownLocations, locations, q.LocationValue()),
	})
}

// filterValues returns the category and location values to offer. A local
// store offers every value it holds; any other source only the values of the
// events it just listed.
func (s *Server) filterValues(listed []*event.Event) (categories, locations []string) {
	if src, ok := s.source.(StoreSource); ok {
		return src.Store.Categories(), src.Store.Locations()
	}
	seenCategory := make(map[string]bool)
	seenLocation := make(map[string]bool)
	for _, evt := range listed {
		if evt.Category != "" && !seenCategory[evt.Category] {
			seenCategory[evt.Category] = true
			categories = append(categories, evt.Category)
		}
		if evt.Location != "" && !seenLocation[evt.Location] {
			seenLocation[evt.Location] = true
			locations = append(locations, evt.Location)
		}
	}
	return categories, locations
}

// detailPage renders GET /view/:id.
func (s *Server) detailPage(c *gin.Context) {
	evt, ok := s.source.GetEvent(c.Request.Context(), c.Param("id"))
	if !ok {
		s.notFoundPage(c)
		return
	}

	c.HTML(http.StatusOK, "detail.html", detailView{
		Title:       evt.Title,
		SEO:         buildSEO(evt, s.siteURL(c)),
		Event:       evt,
		CalendarURL: s.calendarURL(evt.ID),
	})
}

func (s *Server) notFoundPage(c *gin.Context) {
	c.HTML(http.StatusNotFound, "not_found.html", notFoundView{Title: "Event not found"})
}

// calendarURL points at the export of the server that owns the event.
func (s *Server) calendarURL(id string) string {
	path := "/events/" + url.PathEscape(id) + "/calendar.ics"
	if remote, ok := s.source.(interface{ URL(string) string }); ok {
		return remote.URL(path)
	}
	return path
}

// selectOptions merges the known options with extra values, marking the
// selected one. A selected value missing from both lists is still offered.
func selectOptions(known []option, extra []string, selected string) []option {
	opts := make([]option, 0, len(known)+len(extra))
	seen := make(map[string]bool, len(known))
	for _, o := range known {
		seen[o.Value] = true
		o.Selected = o.Value == selected
		opts = append(opts, o)
	}
	for _, v := range append(append([]string{}, extra...), selected) {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		opts = append(opts, option{Value: v, Label: humanize(v), Selected: v == selected})
	}
	return opts
}

// humanize turns "san-francisco" into "San Francisco".
func humanize(value string) string {
	words := strings.FieldsFunc(value, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
