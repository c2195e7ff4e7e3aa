// Package api serves gasket generation and stored runs over HTTP.
//
// Routes:
//
//	POST   /v1/gaskets           generate a gasket, optionally saving the run
//	GET    /v1/gaskets/{id}      stored run as a JSON document
//	GET    /v1/gaskets/{id}.dot  stored run as a DOT tangency graph
//	GET    /v1/runs              stored run summaries, newest first
//	DELETE /v1/runs/{id}         delete a stored run
//	GET    /healthz              liveness
//	GET    /metrics              Prometheus metrics (when a gatherer is set)
//
// JSON bodies are compact with a trailing newline. A gasket document is
// byte-identical whether it comes embedded in a POST reply or from GET.
package api

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

	"github.com/matzehuels/gasket/pkg/config"
	"github.com/matzehuels/gasket/pkg/observability"
	"github.com/matzehuels/gasket/pkg/pipeline"
	"github.com/matzehuels/gasket/pkg/store"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Defaults fill request fields the client leaves out.
	Defaults config.GenerateConfig

	// MaxDepth caps requested depths. Zero means no cap beyond the
	// generator's own limit.
	MaxDepth int

	// Gatherer backs /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
}

// NewHandler creates the router for s.
func NewHandler(s *Server) http.Handler {
	if s.Logger == nil {
		s.Logger = log.Default()
	}
	if s.Runner == nil {
		s.Runner = pipeline.NewRunner(nil, nil, s.Logger)
	}
	if s.Store == nil {
		s.Store = store.NewMemoryStore()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(s.instrument)

		r.Post("/v1/gaskets", s.createGasket)
		r.Get("/v1/gaskets/{id}.dot", s.getGasketDOT)
		r.Get("/v1/gaskets/{id}", s.getGasket)
		r.Get("/v1/runs", s.listRuns)
		r.Delete("/v1/runs/{id}", s.deleteRun)
		r.Get("/healthz", s.health)
	})

	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// instrument reports requests to the HTTP hooks and the debug log. It runs
// inside the routing group so the matched pattern is known.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := chi.RouteContext(r.Context()).RoutePattern()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, route)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, route, status, d)
		s.Logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", d,
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Serve runs h on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, cfg config.ServerConfig, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.ReadTimeout.Duration,
		WriteTimeout:      cfg.WriteTimeout.Duration,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
