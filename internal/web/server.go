package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pfrederiksen/ai-news-events/internal/config"
	"github.com/pfrederiksen/ai-news-events/internal/logger"
	"github.com/pfrederiksen/ai-news-events/internal/store"
)

// Server serves the events API and HTML pages
type Server struct {
	cfg     *config.Config
	store   *store.Store
	source  Source
	metrics *metrics
	engine  *gin.Engine
}

// Option configures a Server
type Option func(*Server)

// WithSource sets where the HTML pages read events from.
// The JSON API always answers from the store.
func WithSource(src Source) Option {
	return func(s *Server) {
		if src != nil {
			s.source = src
		}
	}
}

// New builds a Server around the given store.
func New(cfg *config.Config, st *store.Store, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	cfg.Normalize()
	if st == nil {
		return nil, errors.New("web: store is required")
	}

	s := &Server{
		cfg:     cfg,
		store:   st,
		source:  StoreSource{Store: st},
		metrics: newMetrics(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tmpl, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s.metrics.storeSize.Set(float64(st.Len()))
	logger.SetGauge("store.events", float64(st.Len()))

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	// IDs are opaque and may contain escaped slashes.
	engine.UseRawPath = true
	engine.UnescapePathValues = true
	engine.SetHTMLTemplate(tmpl)
	engine.Use(gin.Recovery(), requestID(), s.accessLog())
	if len(cfg.CORSOrigins) > 0 {
		engine.Use(cors.New(cors.Config{
			AllowOrigins:  cfg.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Accept", "Content-Type", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader, "Cache-Control"},
			MaxAge:        12 * time.Hour,
		}))
	}
	s.engine = engine
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	r := s.engine

	r.GET("/", s.listPage)
	r.GET("/view/:id", s.detailPage)
	r.NoRoute(s.notFoundPage)

	for _, prefix := range []string{"/events", "/api/events"} {
		g := r.Group(prefix)
		g.GET("", s.listEvents)
		g.GET("/:id", s.getEvent)
		g.GET("/:id/calendar.ics", s.eventCalendar)
	}
	r.GET("/calendar.ics", s.feedCalendar)

	r.GET("/health", s.health)
	r.GET("/health/detailed", s.healthDetailed)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))
}

// Handler returns the http.Handler serving every route
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Listen, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("web server listening", logger.Fields{
			"addr":   ln.Addr().String(),
			"events": s.store.Len(),
		})
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("web server shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	return nil
}

func (s *Server) cacheControl() string {
	return "public, max-age=" + strconv.Itoa(int(s.cfg.CacheMaxAge/time.Second))
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) healthDetailed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"events":  s.store.Len(),
		"metrics": logger.GetMetricsSnapshot(),
	})
}
