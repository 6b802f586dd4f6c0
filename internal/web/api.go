package web

import (
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pfrederiksen/ai-news-events/internal/calendar"
	"github.com/pfrederiksen/ai-news-events/internal/filter"
	"github.com/pfrederiksen/ai-news-events/internal/logger"
)

const calendarContentType = "text/calendar; charset=utf-8"

var errNotFound = gin.H{"message": "Event not found"}

// listEvents answers GET /events with the filtered, newest-first list.
func (s *Server) listEvents(c *gin.Context) {
	q := filter.FromValues(c.Request.URL.Query())
	events := s.store.ListEvents(q)

	c.Header("Cache-Control", s.cacheControl())
	c.JSON(http.StatusOK, events)
}

// getEvent answers GET /events/:id.
func (s *Server) getEvent(c *gin.Context) {
	evt, ok := s.store.GetEvent(c.Param("id"))
	if !ok {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusNotFound, errNotFound)
		return
	}

	c.Header("Cache-Control", s.cacheControl())
	c.JSON(http.StatusOK, evt)
}

// eventCalendar exports a single event as an iCalendar file.
func (s *Server) eventCalendar(c *gin.Context) {
	evt, ok := s.store.GetEvent(c.Param("id"))
	if !ok {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusNotFound, errNotFound)
		return
	}

	ics, err := calendar.GenerateICS(evt, s.siteURL(c))
	if err != nil {
		logger.Error("failed to generate calendar", logger.Fields{"id": evt.ID}, err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate calendar"})
		return
	}

	c.Header("Content-Disposition", attachment(evt.ID+".ics"))
	c.Header("Cache-Control", s.cacheControl())
	c.Data(http.StatusOK, calendarContentType, []byte(ics))
}

// feedCalendar exports the filtered event list as one calendar.
func (s *Server) feedCalendar(c *gin.Context) {
	q := filter.FromValues(c.Request.URL.Query())
	events := s.store.ListEvents(q)

	ics, err := calendar.GenerateFeedICS(events, "AI News Events", s.siteURL(c))
	if err != nil {
		logger.Error("failed to generate calendar feed", logger.Fields{"filters": q.String()}, err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate calendar"})
		return
	}

	c.Header("Cache-Control", s.cacheControl())
	c.Data(http.StatusOK, calendarContentType, []byte(ics))
}

func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// siteURL is the configured public origin, or the request's own origin.
func (s *Server) siteURL(c *gin.Context) string {
	if s.cfg.SiteURL != "" {
		return s.cfg.SiteURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host
}
