// Package server exposes the routing pipeline over HTTP.
//
// Routes:
//
//	POST   /v1/solve        route a graph, store the run (rate limited)
//	GET    /v1/runs         list stored runs, newest first
//	GET    /v1/runs/{id}    fetch one run with its moves
//	DELETE /v1/runs/{id}    delete a run
//	GET    /v1/lattices     describe the built-in lattices
//	GET    /healthz         liveness and build info
//	GET    /metrics         Prometheus metrics, when a registry is configured
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/matzehuels/qswap/pkg/pipeline"
	"github.com/matzehuels/qswap/pkg/store"
)

// Defaults for Config fields left zero.
const (
	DefaultAddr          = ":8080"
	DefaultRateLimit     = 2 // solves per second
	DefaultBurst         = 4
	DefaultSolveTimeout  = 2 * time.Minute
	DefaultMaxIterations = 100_000
	DefaultListLimit     = 50
	shutdownTimeout      = 10 * time.Second
)

// Config configures a Server.
type Config struct {
	Addr   string
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Registry, when set, is served on /metrics.
	Registry *prometheus.Registry

	// RateLimit and Burst configure the token bucket guarding /v1/solve.
	RateLimit rate.Limit
	Burst     int

	// SolveTimeout bounds a single solve request.
	SolveTimeout time.Duration

	// MaxIterations caps the iteration budget a client may request.
	MaxIterations int
}

// Server is the HTTP API.
type Server struct {
	cfg     Config
	limiter *rate.Limiter
	router  chi.Router
}

// New creates a server. Runner and Store are required.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		return nil, stderrors.New("server: runner is required")
	}
	if cfg.Store == nil {
		return nil, stderrors.New("server: store is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}
	if cfg.SolveTimeout <= 0 {
		cfg.SolveTimeout = DefaultSolveTimeout
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}

	s := &Server{
		cfg:     cfg,
		limiter: rate.NewLimiter(cfg.RateLimit, cfg.Burst),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	if s.cfg.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.cfg.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.With(s.rateLimit).Post("/solve", s.handleSolve)
		r.Get("/lattices", s.handleLattices)
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", s.handleListRuns)
			r.Get("/{id}", s.handleGetRun)
			r.Delete("/{id}", s.handleDeleteRun)
		})
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.cfg.Logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.cfg.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
