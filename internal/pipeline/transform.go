package pipeline

import (
	"log/slog"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
)

// MarkerEncoder turns quakes into map markers, logging and counting invalid magnitudes.
type MarkerEncoder struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewMarkerEncoder creates a MarkerEncoder.
func NewMarkerEncoder(logger *slog.Logger, metrics *observability.Metrics) *MarkerEncoder {
	return &MarkerEncoder{logger: logger, metrics: metrics}
}

// Encode builds the marker for one quake. An invalid magnitude is drawn in
// the lowest bucket; it is reported through the second return value.
func (e *MarkerEncoder) Encode(q domain.Quake) (domain.Marker, bool) {
	m := domain.NewMarker(q)
	e.metrics.MarkersRendered.Inc()
	e.metrics.MarkersByBucket.WithLabelValues(m.Encoding.Color).Inc()

	if err := q.Magnitude.Validate(); err != nil {
		e.logger.Warn("invalid magnitude, using lowest bucket",
			"feature_id", q.ID,
			"place", q.Place,
			"error", err,
		)
		e.metrics.InvalidMagnitudes.Inc()
		return m, false
	}
	if m.Encoding.Capped {
		e.logger.Warn("magnitude beyond plotting range, radius capped",
			"feature_id", q.ID,
			"magnitude", q.Magnitude.Value,
			"radius", m.Encoding.Radius,
		)
	}
	return m, true
}

// EncodeAll encodes quakes in order and returns the number of invalid magnitudes.
func (e *MarkerEncoder) EncodeAll(quakes []domain.Quake) ([]domain.Marker, int) {
	markers := make([]domain.Marker, 0, len(quakes))
	invalid := 0
	for _, q := range quakes {
		m, ok := e.Encode(q)
		if !ok {
			invalid++
		}
		markers = append(markers, m)
	}
	return markers, invalid
}
