package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allColors = []string{"#fa9fb5", "#f768a1", "#dd3497", "#ae017e", "#7a0177", "#49006a"}

func TestColorFor_Boundaries(t *testing.T) {
	cases := []struct {
		mag  float64
		want string
	}{
		{8.0, "#49006a"},
		{9.5, "#49006a"},
		{7.999, "#7a0177"},
		{7.0, "#7a0177"},
		{6.99, "#ae017e"},
		{6.1, "#ae017e"},
		{6.0, "#dd3497"},
		{5.5, "#dd3497"},
		{5.49, "#f768a1"},
		{2.5, "#f768a1"},
		{2.4999, "#fa9fb5"},
		{0, "#fa9fb5"},
		{-1.2, "#fa9fb5"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ColorFor(tc.mag), "magnitude %v", tc.mag)
	}
}

func TestColorFor_NonFinite(t *testing.T) {
	assert.Equal(t, "#fa9fb5", ColorFor(math.NaN()))
	assert.Equal(t, "#fa9fb5", ColorFor(math.Inf(-1)))
	assert.Equal(t, "#49006a", ColorFor(math.Inf(1)))
}

func TestColorFor_Totality(t *testing.T) {
	for m := -5.0; m <= 12.0; m += 0.01 {
		assert.Contains(t, allColors, ColorFor(m), "magnitude %v", m)
	}
}

func TestBucketIndex_Monotone(t *testing.T) {
	prev := BucketIndex(-10)
	for m := -10.0; m <= 12.0; m += 0.005 {
		idx := BucketIndex(m)
		require.GreaterOrEqual(t, idx, prev, "inversion at magnitude %v", m)
		require.Less(t, idx, BucketCount)
		prev = idx
	}
	assert.Equal(t, BucketCount-1, prev)
}

func TestRadiusFor(t *testing.T) {
	assert.Equal(t, 15.0, RadiusFor(5.0))
	assert.Equal(t, 0.0, RadiusFor(0))
	assert.Equal(t, 18.9, RadiusFor(6.3))
	assert.Equal(t, 0.0, RadiusFor(-0.8))
	assert.Equal(t, 0.0, RadiusFor(math.NaN()))
}

func TestRadiusFor_HugeMagnitudeStaysFinite(t *testing.T) {
	for _, m := range []float64{20, 1e6, 7e305, 1e308, math.MaxFloat64, math.Inf(1)} {
		r := RadiusFor(m)
		assert.False(t, math.IsInf(r, 0), "magnitude %v", m)
		assert.Equal(t, MaxRadius, r, "magnitude %v", m)
	}
	assert.Equal(t, 0.0, RadiusFor(-math.MaxFloat64))
	assert.Less(t, RadiusFor(10), MaxRadius)
}

func TestLegendBuckets_MatchesColorFor(t *testing.T) {
	buckets := LegendBuckets()
	require.Len(t, buckets, 6)

	for i := 1; i < len(buckets); i++ {
		assert.Less(t, buckets[i-1].Lower, buckets[i].Lower, "buckets must ascend")
	}

	sweep := []float64{1, 3, 5.6, 6.5, 7.5, 9}
	for i, m := range sweep {
		assert.Equal(t, buckets[i].Color, ColorFor(m), "magnitude %v", m)
	}

	// Each bucket's own lower bound is inside it.
	for i, b := range buckets[1:] {
		assert.Equal(t, b.Color, ColorFor(b.Lower), "bucket %d", i+1)
	}
}

func TestLegendBuckets_Labels(t *testing.T) {
	labels := make([]string, 0, BucketCount)
	for _, b := range LegendBuckets() {
		labels = append(labels, b.Label)
	}
	assert.Equal(t, []string{"< 2.5", "2.5 - 5.5", "5.5 - 6.1", "6.1 - 7.0", "7.0 - 8.0", "8.0+"}, labels)
}

func TestLegendBuckets_ReturnsCopy(t *testing.T) {
	b := LegendBuckets()
	b[0].Color = "#000000"
	assert.Equal(t, "#fa9fb5", LegendBuckets()[0].Color)
	assert.Equal(t, "#fa9fb5", ColorFor(1))
}

func TestMagnitudeReading_Validate(t *testing.T) {
	require.NoError(t, Magnitude(4.2).Validate())
	require.NoError(t, Magnitude(-0.5).Validate())

	for _, r := range []MagnitudeReading{{}, Magnitude(math.NaN()), Magnitude(math.Inf(1))} {
		err := r.Validate()
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidMagnitude))
	}
}

func TestMagnitudeReading_String(t *testing.T) {
	assert.Equal(t, "6.3", Magnitude(6.3).String())
	assert.Equal(t, "5", Magnitude(5).String())
	assert.Equal(t, "unknown", MagnitudeReading{}.String())
}

func TestEncode(t *testing.T) {
	t.Run("valid reading", func(t *testing.T) {
		enc := Encode(Magnitude(6.3))
		assert.Equal(t, "#ae017e", enc.Color)
		assert.Equal(t, 18.9, enc.Radius)
		assert.Equal(t, 3, enc.Bucket)
	})

	t.Run("absent reading", func(t *testing.T) {
		enc := Encode(MagnitudeReading{})
		assert.Equal(t, "#fa9fb5", enc.Color)
		assert.Equal(t, MinVisibleRadius, enc.Radius)
		assert.Equal(t, 0, enc.Bucket)
	})

	t.Run("non-finite reading", func(t *testing.T) {
		enc := Encode(Magnitude(math.Inf(1)))
		assert.Equal(t, "#fa9fb5", enc.Color)
		assert.Equal(t, MinVisibleRadius, enc.Radius)
	})

	t.Run("huge finite reading caps radius", func(t *testing.T) {
		enc := Encode(Magnitude(1e308))
		assert.Equal(t, "#49006a", enc.Color)
		assert.Equal(t, MaxRadius, enc.Radius)
		assert.True(t, enc.Capped)
		assert.False(t, Encode(Magnitude(6.3)).Capped)
	})

	t.Run("negative reading clamps radius", func(t *testing.T) {
		enc := Encode(Magnitude(-0.4))
		assert.Equal(t, "#fa9fb5", enc.Color)
		assert.Equal(t, MinVisibleRadius, enc.Radius)
	})
}
