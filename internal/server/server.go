// Package server exposes marker generation over HTTP.
//
// Routes:
//
//	GET /healthz                        liveness probe
//	GET /version                        build information
//	GET /metrics                        Prometheus exposition, when enabled
//	GET /api/v1/elements                key table, ?category=noble-gas filters
//	GET /api/v1/elements/{key}          one key with its hash and attributes
//	GET /api/v1/markers/{key}.{png|svg} rendered marker
//	GET /api/v1/markers/{key}/grid      cell grid as JSON
//	GET /api/v1/audit                   uniqueness report over a key set
//
// {key} is a number or an element symbol. Marker routes take the query
// parameters mode, shape, code, number, label, size, binary, font and
// refresh.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/fiducial/pkg/pipeline"
)

// Config holds server settings.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Defaults seeds every marker request before query parameters apply.
	Defaults pipeline.Options

	// Metrics serves /metrics. Nil leaves the route unregistered.
	Metrics http.Handler
}

// Server is the HTTP front end of a pipeline.Runner.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
	http   *http.Server
}

// New builds a server. Nothing listens until Run.
func New(cfg Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{cfg: cfg, runner: runner, logger: logger}
	s.router = s.routes()
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return s
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	// Outermost first.
	r.Use(requestID)
	r.Use(instrument)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealthz)
	r.Get("/version", handleVersion)
	if s.cfg.Metrics != nil {
		r.Handle("/metrics", s.cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/elements", s.handleElements)
		r.Get("/elements/{key}", s.handleElement)
		r.Get("/markers/{key}/grid", s.handleGrid)
		r.Get("/markers/{file}", s.handleMarker)
		r.Get("/audit", s.handleAudit)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed")
	})
	return r
}

// Run listens until ctx is cancelled, then drains in-flight requests for up
// to ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", ln.Addr().String())
		errCh <- s.http.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
