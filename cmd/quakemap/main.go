package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/quake-map/internal/adapter/httpadapter"
	"github.com/couchcryptid/quake-map/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/couchcryptid/quake-map/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	page := render.PageOptions{
		CenterLat: cfg.CenterLat,
		CenterLon: cfg.CenterLon,
		Zoom:      cfg.Zoom,
		Layers:    baseLayers(ctx, cfg, logger),
	}

	client := usgs.NewClient(cfg.FeedURL, cfg.FeedTimeout, logger)
	p := pipeline.New(client, logger, metrics)

	// Warm up so /readyz reflects the feed before the first page view.
	if view, err := p.Build(ctx); err != nil {
		logger.Warn("initial feed fetch failed", "feed_url", cfg.FeedURL, "error", err)
	} else {
		logger.Info("initial feed fetch succeeded", "markers", len(view.Markers), "skipped", view.Skipped)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, page, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// baseLayers offers the Mapbox layers when the token checks out and falls
// back to OpenStreetMap otherwise.
func baseLayers(ctx context.Context, cfg *config.Config, logger *slog.Logger) []domain.BaseLayer {
	if cfg.MapboxToken == "" {
		logger.Info("mapbox token not set, using OpenStreetMap tiles")
		return mapbox.BaseLayers("")
	}

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ok, err := mapbox.NewClient(cfg.MapboxToken, 5*time.Second, logger).ValidateToken(checkCtx)
	switch {
	case err != nil:
		// The check itself failed; keep the token rather than guess.
		logger.Warn("mapbox token check failed", "error", err)
	case !ok:
		logger.Warn("mapbox token rejected, using OpenStreetMap tiles")
		return mapbox.BaseLayers("")
	}
	logger.Info("mapbox base layers enabled")
	return mapbox.BaseLayers(cfg.MapboxToken)
}
