package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

const (
	// RadiusScale converts a magnitude to a marker radius in pixels.
	RadiusScale = 3

	// MinVisibleRadius is the smallest radius Encode hands to the map.
	MinVisibleRadius = 1.0

	// MaxRadius bounds RadiusFor so corrupt readings such as 1e308 stay
	// finite and JSON-encodable.
	MaxRadius = 60.0
)

// ErrInvalidMagnitude marks a reading that is absent or not a finite number.
var ErrInvalidMagnitude = errors.New("invalid magnitude")

type threshold struct {
	lower float64
	color string
}

// thresholds is ordered ascending by lower bound. ColorFor, BucketIndex and
// LegendBuckets all read it; nothing else may duplicate these values.
var thresholds = [...]threshold{
	{lower: math.Inf(-1), color: "#fa9fb5"},
	{lower: 2.5, color: "#f768a1"},
	{lower: 5.5, color: "#dd3497"},
	{lower: 6.1, color: "#ae017e"},
	{lower: 7.0, color: "#7a0177"},
	{lower: 8.0, color: "#49006a"},
}

// BucketCount is the number of magnitude buckets.
const BucketCount = len(thresholds)

// MagnitudeReading is a magnitude as found in the feed. Present is false when
// the feed carried null or no value at all.
type MagnitudeReading struct {
	Value   float64
	Present bool
}

// Magnitude returns a present reading for v.
func Magnitude(v float64) MagnitudeReading {
	return MagnitudeReading{Value: v, Present: true}
}

// Validate returns an error wrapping ErrInvalidMagnitude for absent or non-finite readings.
func (r MagnitudeReading) Validate() error {
	if !r.Present {
		return fmt.Errorf("%w: absent", ErrInvalidMagnitude)
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidMagnitude, r.Value)
	}
	return nil
}

// String prints the reading in its shortest decimal form, or "unknown".
func (r MagnitudeReading) String() string {
	if r.Validate() != nil {
		return "unknown"
	}
	return strconv.FormatFloat(r.Value, 'f', -1, 64)
}

// BucketIndex returns the bucket for m, 0 (lowest) through BucketCount-1.
// Thresholds are checked highest first and the first match wins; NaN matches
// none of them and falls through to 0.
func BucketIndex(m float64) int {
	for i := len(thresholds) - 1; i > 0; i-- {
		if m >= thresholds[i].lower {
			return i
		}
	}
	return 0
}

// ColorFor maps a magnitude to its display color.
func ColorFor(m float64) string {
	return thresholds[BucketIndex(m)].color
}

// RadiusFor scales a magnitude to a marker radius, rounded to hundredths of a
// pixel. Negative and NaN magnitudes yield 0; the result never exceeds MaxRadius.
func RadiusFor(m float64) float64 {
	r := m * RadiusScale
	switch {
	case math.IsNaN(r) || r <= 0:
		return 0
	case r >= MaxRadius:
		return MaxRadius
	}
	return math.Round(r*100) / 100
}

// Bucket is one contiguous magnitude range drawn in a single color.
// Lower is inclusive; the lowest bucket has Lower = -Inf.
type Bucket struct {
	Lower float64
	Label string
	Color string
}

// LegendBuckets returns the buckets in ascending magnitude order. The slice is
// freshly built on every call.
func LegendBuckets() []Bucket {
	out := make([]Bucket, len(thresholds))
	for i, t := range thresholds {
		out[i] = Bucket{Lower: t.lower, Label: bucketLabel(i), Color: t.color}
	}
	return out
}

func bucketLabel(i int) string {
	switch {
	case i == 0:
		return fmt.Sprintf("< %.1f", thresholds[1].lower)
	case i == len(thresholds)-1:
		return fmt.Sprintf("%.1f+", thresholds[i].lower)
	default:
		return fmt.Sprintf("%.1f - %.1f", thresholds[i].lower, thresholds[i+1].lower)
	}
}

// VisualEncoding is the color and radius a marker is drawn with.
type VisualEncoding struct {
	Color  string
	Radius float64
	Bucket int
	Capped bool // radius was clamped to MaxRadius
}

// Encode derives the visual encoding of a reading. Invalid readings get the
// lowest bucket; every radius lies in [MinVisibleRadius, MaxRadius].
func Encode(r MagnitudeReading) VisualEncoding {
	if r.Validate() != nil {
		return VisualEncoding{Color: thresholds[0].color, Radius: MinVisibleRadius}
	}
	radius := RadiusFor(r.Value)
	return VisualEncoding{
		Color:  ColorFor(r.Value),
		Radius: math.Max(radius, MinVisibleRadius),
		Bucket: BucketIndex(r.Value),
		Capped: radius == MaxRadius,
	}
}
