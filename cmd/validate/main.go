// Command validate checks a saved USGS feed document against the map's
// encoding rules: the legend table is self-consistent, every feature decodes
// into the Quake schema, and every marker gets a palette color and a drawable
// radius. It ends with a per-bucket summary.
//
// Usage:
//
//	curl -so week.geojson https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/1.0_week.geojson
//	go run ./cmd/validate -feed week.geojson [-strict]
//
// Data anomalies (null magnitudes, missing places) are reported as notes and
// only fail the run with -strict.
package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/couchcryptid/quake-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/paulmach/orb/geojson"
)

// sweep holds one representative magnitude per bucket, ascending.
var sweep = []float64{1, 3, 5.6, 6.5, 7.5, 9}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed(strict bool) bool {
	return len(p.errors) == 0 && (!strict || len(p.notes) == 0)
}

func main() {
	feedPath := flag.String("feed", "", "path to a saved USGS GeoJSON feed")
	strict := flag.Bool("strict", false, "treat data anomalies as failures")
	flag.Parse()

	if *feedPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*feedPath, *strict); code != 0 {
		os.Exit(code)
	}
}

func run(feedPath string, strict bool) int {
	fmt.Println("=== Earthquake Feed Validation ===")
	fmt.Println()

	data, err := os.ReadFile(feedPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: read feed: %v\n", err)
		return 1
	}
	fc, err := usgs.DecodeCollection(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	schema, quakes := validateSchema(fc)
	phases := []*phase{
		validateLegend(),
		schema,
		validateEncoding(quakes),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed(strict) {
			status = fmt.Sprintf("\033[31mFAIL (%d errors, %d notes)\033[0m", len(p.errors), len(p.notes))
			allPassed = false
		} else if len(p.notes) > 0 {
			status = fmt.Sprintf("\033[33mPASS (%d notes)\033[0m", len(p.notes))
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Features: %d in feed, %d placed on map\n", len(fc.Features), len(quakes))
	printBuckets(quakes)

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.notes) == 0 {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] ERROR %s\n", i+1, e)
		}
		for i, n := range p.notes {
			fmt.Printf("  [%d] note  %s\n", i+1, n)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Legend ──
// The legend and ColorFor must agree bucket for bucket.

func validateLegend() *phase {
	p := &phase{name: "Phase 1: Legend consistency"}

	buckets := domain.LegendBuckets()
	if len(buckets) != len(sweep) {
		p.errorf("legend has %d buckets, expected %d", len(buckets), len(sweep))
		return p
	}
	for i, b := range buckets {
		if i > 0 && !(b.Lower > buckets[i-1].Lower) {
			p.errorf("bucket %d lower bound %g does not ascend", i, b.Lower)
		}
		if got := domain.ColorFor(sweep[i]); got != b.Color {
			p.errorf("magnitude %g: ColorFor=%s, legend bucket %d=%s", sweep[i], got, i, b.Color)
		}
		if i > 0 && domain.ColorFor(b.Lower) != b.Color {
			p.errorf("bucket %d lower bound %g is not inside its own bucket", i, b.Lower)
		}
		if b.Label == "" {
			p.errorf("bucket %d has no label", i)
		}
	}
	return p
}

// ── Phase 2: Schema ──
// Every feature must decode; missing optional fields are notes.

func validateSchema(fc *geojson.FeatureCollection) (*phase, []domain.Quake) {
	p := &phase{name: "Phase 2: Feed schema"}

	quakes := make([]domain.Quake, 0, len(fc.Features))
	seen := make(map[string]bool, len(fc.Features))

	for i, f := range fc.Features {
		q, err := domain.QuakeFromFeature(f)
		if err != nil {
			p.errorf("feature %d: %v", i, err)
			continue
		}
		label := fmt.Sprintf("feature %d (%s)", i, q.ID)

		if q.ID == "" {
			p.notef("feature %d: no id", i)
		} else if seen[q.ID] {
			p.errorf("%s: duplicate id", label)
		}
		seen[q.ID] = true

		if q.Lat < -90 || q.Lat > 90 || q.Lon < -180 || q.Lon > 180 {
			p.errorf("%s: coordinates out of range: lon=%g lat=%g", label, q.Lon, q.Lat)
		}
		if err := q.Magnitude.Validate(); err != nil {
			switch {
			case errors.Is(err, domain.ErrInvalidMagnitude) && !q.Magnitude.Present:
				p.notef("%s: magnitude is null", label)
			default:
				p.errorf("%s: %v", label, err)
			}
		}
		if q.Place == domain.UnknownPlace {
			p.notef("%s: no place description", label)
		}
		if q.Time.IsZero() {
			p.notef("%s: no event time", label)
		}
		quakes = append(quakes, q)
	}
	return p, quakes
}

// ── Phase 3: Encoding ──
// Every marker must be drawable with a palette color.

func validateEncoding(quakes []domain.Quake) *phase {
	p := &phase{name: "Phase 3: Marker encoding"}

	palette := make(map[string]bool, domain.BucketCount)
	for _, b := range domain.LegendBuckets() {
		palette[b.Color] = true
	}

	for _, q := range quakes {
		m := domain.NewMarker(q)
		if !palette[m.Encoding.Color] {
			p.errorf("%s: color %s not in palette", q.ID, m.Encoding.Color)
		}
		if !(m.Encoding.Radius >= domain.MinVisibleRadius && m.Encoding.Radius <= domain.MaxRadius) {
			p.errorf("%s: radius %g not drawable", q.ID, m.Encoding.Radius)
		}
		if m.Encoding.Capped {
			p.notef("%s: magnitude %g beyond plotting range, radius capped", q.ID, q.Magnitude.Value)
		}
		if q.Magnitude.Validate() == nil {
			want := math.Max(domain.RadiusFor(q.Magnitude.Value), domain.MinVisibleRadius)
			if m.Encoding.Radius != want {
				p.errorf("%s: radius %g, expected %g", q.ID, m.Encoding.Radius, want)
			}
		}
		if !strings.Contains(m.Popup, "Magnitude:") {
			p.errorf("%s: popup has no magnitude", q.ID)
		}
	}
	return p
}

func printBuckets(quakes []domain.Quake) {
	counts := make([]int, domain.BucketCount)
	for _, q := range quakes {
		counts[domain.Encode(q.Magnitude).Bucket]++
	}
	fmt.Println()
	fmt.Println("Bucket        Color     Count")
	for i, b := range domain.LegendBuckets() {
		fmt.Printf("  %-11s %s  %5d\n", b.Label, b.Color, counts[i])
	}
}
