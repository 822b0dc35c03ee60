// Package server exposes the fit pipeline over HTTP.
//
// Routes:
//
//	GET  /health                  liveness and build info
//	GET  /api/skins               registered skins
//	GET  /api/layout/{n}?skin=    layout descriptor and title range for n cards
//	GET  /api/script?skin=&n=     standalone fit script
//	POST /api/render              run the pipeline on a deck
//
// Errors are JSON objects carrying the machine-readable code from
// pkg/errors and the request ID.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/deckfit/pkg/pipeline"
	"github.com/matzehuels/deckfit/pkg/skin"
)

// Defaults for the HTTP server.
const (
	DefaultAddr         = ":8080"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBodyBytes = 1 << 20
)

// Option configures a Server.
type Option func(*Server)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithMaxBodyBytes limits the size of render request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBody = n
		}
	}
}

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	skins   *skin.Registry
	logger  *log.Logger
	timeout time.Duration
	maxBody int64
	router  chi.Router
}

// New creates a server around runner. The runner's skin registry answers
// skin queries.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		runner:  runner,
		skins:   runner.Skins,
		logger:  logger.WithPrefix("http"),
		timeout: DefaultTimeout,
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/skins", s.handleSkins)
		r.Get("/layout/{n}", s.handleLayout)
		r.Get("/script", s.handleScript)
		r.Post("/render", s.handleRender)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
