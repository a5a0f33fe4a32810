package render

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"sync"

	"github.com/couchcryptid/quake-map/internal/domain"
)

var legendTmpl = template.Must(template.New("legend").Parse(
	`<h4>Magnitude</h4>` +
		`<ul class="legend-buckets">` +
		`{{range .}}<li><i class="swatch" style="background: {{.Color}}"></i> {{.Label}}</li>{{end}}` +
		`</ul>`))

// legendOnce builds the fragment on first use; the bucket table never changes.
var legendOnce = sync.OnceValues(func() (template.HTML, error) {
	var buf bytes.Buffer
	if err := legendTmpl.Execute(&buf, domain.LegendBuckets()); err != nil {
		return "", fmt.Errorf("render legend: %w", err)
	}
	return template.HTML(buf.String()), nil //nolint:gosec // produced by html/template
})

// Legend returns the legend HTML fragment, one swatch per bucket in
// ascending magnitude order.
func Legend() (template.HTML, error) {
	return legendOnce()
}

// LegendEntry is the JSON form of a bucket. Min is nil for the open lowest bucket.
type LegendEntry struct {
	Min   *float64 `json:"min"`
	Label string   `json:"label"`
	Color string   `json:"color"`
}

// LegendEntries returns the buckets in a JSON-safe form.
func LegendEntries() []LegendEntry {
	buckets := domain.LegendBuckets()
	out := make([]LegendEntry, len(buckets))
	for i, b := range buckets {
		out[i] = LegendEntry{Label: b.Label, Color: b.Color}
		if !math.IsInf(b.Lower, -1) {
			lower := b.Lower
			out[i].Min = &lower
		}
	}
	return out
}
