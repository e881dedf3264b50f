// Package server exposes the layout pipeline over HTTP.
//
// # Routes
//
//	GET    /healthz
//	GET    /v1/version
//	GET    /v1/stats                       event counters, when enabled
//	POST   /v1/layout                      scene JSON plus warning state
//	POST   /v1/render                      one artifact, or all as JSON
//	POST   /v1/sessions                    create a warning session
//	GET    /v1/sessions/{id}
//	DELETE /v1/sessions/{id}
//	POST   /v1/sessions/{id}/dismiss       dismiss the current overlap warning
//	PUT    /v1/sessions/{id}/selection     focus an element
//
// Layout and render requests carry the definition either inline (JSON
// object) or as source text in any supported format, plus pipeline options.
// A request naming a session reads its view state from the session and
// records the resulting overlap fingerprint back into it.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/drivetrain/pkg/observability"
	"github.com/matzehuels/drivetrain/pkg/pipeline"
	"github.com/matzehuels/drivetrain/pkg/session"
)

const (
	// DefaultMaxBodySize bounds request bodies.
	DefaultMaxBodySize = 1 << 20
	// DefaultRequestTimeout bounds a single request.
	DefaultRequestTimeout = 30 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	sessions session.Store
	logger   *log.Logger
	stats    *observability.Counters

	sessionTTL time.Duration
	maxBody    int64
	timeout    time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithSessionTTL sets how long idle sessions live.
func WithSessionTTL(d time.Duration) Option { return func(s *Server) { s.sessionTTL = d } }

// WithMaxBodySize bounds request bodies.
func WithMaxBodySize(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithRequestTimeout bounds each request.
func WithRequestTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// WithStats serves c on /v1/stats. The caller registers c as hooks.
func WithStats(c *observability.Counters) Option { return func(s *Server) { s.stats = c } }

// New creates a server. A nil logger uses log.Default().
func New(runner *pipeline.Runner, sessions session.Store, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:     runner,
		sessions:   sessions,
		logger:     logger,
		sessionTTL: session.DefaultTTL,
		maxBody:    DefaultMaxBodySize,
		timeout:    DefaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		if s.stats != nil {
			r.Get("/stats", s.handleStats)
		}
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/dismiss", s.handleDismiss)
				r.Put("/selection", s.handleSelect)
			})
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
