package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/render"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MapBuilder produces a fresh MapView per request and reports readiness.
type MapBuilder interface {
	sharedobs.ReadinessChecker
	Build(ctx context.Context) (domain.MapView, error)
}

// Server exposes the map page, its data endpoints, and health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	builder    MapBuilder
	page       render.PageOptions
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /, /api/earthquakes, /api/legend,
// /healthz, /readyz, and /metrics routes.
func NewServer(addr string, builder MapBuilder, page render.PageOptions, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		builder: builder,
		page:    page,
		logger:  logger,
	}

	mux.HandleFunc("GET /{$}", s.handleMap)
	mux.HandleFunc("GET /api/earthquakes", s.handleEarthquakes)
	mux.HandleFunc("GET /api/legend", s.handleLegend)
	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(builder))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	view, ok := s.build(w, r)
	if !ok {
		return
	}

	// Render into a buffer so a template failure still yields a clean 500.
	var buf bytes.Buffer
	if err := render.WritePage(&buf, s.page, view); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "failed to render map", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handleEarthquakes(w http.ResponseWriter, r *http.Request) {
	view, ok := s.build(w, r)
	if !ok {
		return
	}

	data, err := render.MarkersGeoJSON(view)
	if err != nil {
		s.logger.Error("encode markers failed", "error", err)
		http.Error(w, "failed to encode earthquakes", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	_, _ = w.Write(data)
}

func (s *Server) handleLegend(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, render.LegendEntries())
}

// build runs the pipeline for a request, writing a 502 when the feed is unavailable.
func (s *Server) build(w http.ResponseWriter, r *http.Request) (domain.MapView, bool) {
	view, err := s.builder.Build(r.Context())
	if err != nil {
		s.logger.Error("build map view failed", "error", err, "path", r.URL.Path)
		http.Error(w, "earthquake feed unavailable", http.StatusBadGateway)
		return domain.MapView{}, false
	}
	return view, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
