package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map service.
type Metrics struct {
	FeedFetches       *prometheus.CounterVec // labels: outcome={success,error}
	FeedFetchDuration prometheus.Histogram
	FeedReady         prometheus.Gauge

	MarkersRendered   prometheus.Counter
	MarkersByBucket   *prometheus.CounterVec // labels: color
	FeaturesSkipped   prometheus.Counter
	InvalidMagnitudes prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FeedFetches,
		m.FeedFetchDuration,
		m.FeedReady,
		m.MarkersRendered,
		m.MarkersByBucket,
		m.FeaturesSkipped,
		m.InvalidMagnitudes,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FeedFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "feed_fetches_total",
			Help:      "Earthquake feed fetches by outcome.",
		}, []string{"outcome"}),
		FeedFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "quakemap",
			Name:      "feed_fetch_duration_seconds",
			Help:      "Duration of a feed fetch and decode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FeedReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quakemap",
			Name:      "feed_ready",
			Help:      "1 when the most recent feed fetch succeeded, 0 otherwise.",
		}),
		MarkersRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "markers_rendered_total",
			Help:      "Total markers produced from feed features.",
		}),
		MarkersByBucket: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "markers_by_bucket_total",
			Help:      "Markers produced per magnitude bucket color.",
		}, []string{"color"}),
		FeaturesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "features_skipped_total",
			Help:      "Feed features dropped for missing point geometry.",
		}),
		InvalidMagnitudes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "invalid_magnitudes_total",
			Help:      "Features whose magnitude was absent or not finite.",
		}),
	}
}
