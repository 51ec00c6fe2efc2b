// Package server implements the procflow HTTP API.
//
// Clients post a process document, receive one stored layout per trellis
// panel, and query the stored layouts by ID:
//
//	POST /v1/layouts               assemble and store a document's layouts
//	GET  /v1/layouts/{id}          fetch a stored layout
//	POST /v1/layouts/{id}/hits     rectangle hit-test against a layout
//	GET  /v1/layouts/{id}/svg      render a stored layout as SVG
//	GET  /healthz                  liveness
//	GET  /metrics                  Prometheus metrics
//
// Errors are returned as {"error": {"code": ..., "message": ...}} with the
// HTTP status derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/procflow/pkg/errors"
	"github.com/matzehuels/procflow/pkg/pipeline"
	"github.com/matzehuels/procflow/pkg/store"
)

// Defaults for Options.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 4 << 20
	DefaultTimeout      = 30 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr         string
	Store        store.Store
	Runner       *pipeline.Runner
	Gatherer     prometheus.Gatherer // served on /metrics; nil disables the route
	TTL          time.Duration
	MaxBodyBytes int64
	Timeout      time.Duration
	Logger       *log.Logger
}

// ValidateAndSetDefaults checks required fields and fills zero fields.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Store == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "server store is required")
	}
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.TTL <= 0 {
		o.TTL = store.DefaultTTL
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Runner == nil {
		o.Runner = pipeline.NewRunner(nil, nil, o.Logger)
	}
	return nil
}

// Server serves the HTTP API.
type Server struct {
	opts   Options
	router chi.Router
}

// New creates a server and registers its routes.
func New(opts Options) (*Server, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	s := &Server{opts: opts}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1/layouts", func(r chi.Router) {
		r.Use(middleware.Timeout(s.opts.Timeout))
		r.Post("/", s.handleCreateLayouts)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetLayout)
			r.Post("/hits", s.handleHitTest)
			r.Get("/svg", s.handleSVG)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, errors.New(errors.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.opts.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// RunCleanup removes expired records every interval until ctx is done.
func (s *Server) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.opts.Store.Cleanup(ctx); err != nil {
				s.opts.Logger.Warn("store cleanup failed", "err", err)
			}
		}
	}
}
