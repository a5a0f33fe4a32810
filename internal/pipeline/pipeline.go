package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
)

// FeedSource returns the current content of an earthquake feed.
type FeedSource interface {
	Fetch(ctx context.Context) (domain.Feed, error)
}

// Pipeline turns one feed fetch into an encoded MapView.
type Pipeline struct {
	source  FeedSource
	encoder *MarkerEncoder
	logger  *slog.Logger
	metrics *observability.Metrics
	ready   atomic.Bool
}

// New creates a Pipeline reading from source.
func New(source FeedSource, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		source:  source,
		encoder: NewMarkerEncoder(logger, metrics),
		logger:  logger,
		metrics: metrics,
	}
}

// CheckReadiness returns nil if the most recent feed fetch succeeded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("earthquake feed has not been loaded successfully")
	}
	return nil
}

// Build fetches the feed and encodes every quake. Malformed features never
// abort the pass; only a failed fetch returns an error.
func (p *Pipeline) Build(ctx context.Context) (domain.MapView, error) {
	start := time.Now()
	feed, err := p.source.Fetch(ctx)
	p.metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		p.metrics.FeedFetches.WithLabelValues("error").Inc()
		p.setReady(false)
		return domain.MapView{}, fmt.Errorf("fetch feed: %w", err)
	}
	p.metrics.FeedFetches.WithLabelValues("success").Inc()
	p.metrics.FeaturesSkipped.Add(float64(feed.Skipped))

	markers, invalid := p.encoder.EncodeAll(feed.Quakes)
	view := domain.NewMapView(feed.Title, markers, feed.Skipped, invalid)

	p.setReady(true)
	p.logger.Debug("map view built",
		"markers", len(markers),
		"skipped", feed.Skipped,
		"invalid_magnitudes", invalid,
		"duration", time.Since(start),
	)
	return view, nil
}

func (p *Pipeline) setReady(ok bool) {
	p.ready.Store(ok)
	if ok {
		p.metrics.FeedReady.Set(1)
	} else {
		p.metrics.FeedReady.Set(0)
	}
}
