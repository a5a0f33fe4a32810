package pipeline_test

import (
	"testing"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/stretchr/testify/assert"
)

func TestMarkerEncoder_Encode(t *testing.T) {
	e := pipeline.NewMarkerEncoder(discardLogger(), newTestMetrics())

	m, ok := e.Encode(domain.Quake{ID: "x", Magnitude: domain.Magnitude(2.5), Place: "P"})
	assert.True(t, ok)
	assert.Equal(t, "#f768a1", m.Encoding.Color)
	assert.Equal(t, 7.5, m.Encoding.Radius)

	m, ok = e.Encode(domain.Quake{ID: "y", Place: "P"})
	assert.False(t, ok)
	assert.Equal(t, "#fa9fb5", m.Encoding.Color)
	assert.Equal(t, domain.MinVisibleRadius, m.Encoding.Radius)
}

func TestMarkerEncoder_EncodeAll_KeepsOrder(t *testing.T) {
	e := pipeline.NewMarkerEncoder(discardLogger(), newTestMetrics())

	quakes := []domain.Quake{
		{ID: "1", Magnitude: domain.Magnitude(9)},
		{ID: "2", Magnitude: domain.Magnitude(1)},
		{ID: "3"},
	}
	markers, invalid := e.EncodeAll(quakes)

	assert.Equal(t, 1, invalid)
	assert.Len(t, markers, 3)
	for i, m := range markers {
		assert.Equal(t, quakes[i].ID, m.Quake.ID)
	}
}

func TestMarkerEncoder_Encode_CapsHugeMagnitude(t *testing.T) {
	e := pipeline.NewMarkerEncoder(discardLogger(), newTestMetrics())

	m, ok := e.Encode(domain.Quake{ID: "z", Magnitude: domain.Magnitude(1e308), Place: "P"})
	assert.True(t, ok)
	assert.Equal(t, domain.MaxRadius, m.Encoding.Radius)
	assert.True(t, m.Encoding.Capped)
}
