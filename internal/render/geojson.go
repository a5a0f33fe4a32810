// Package render turns encoded markers into what the browser consumes: a
// GeoJSON FeatureCollection, the legend fragment, and the Leaflet map page.
package render

import (
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// MarkersGeoJSON encodes a MapView as a FeatureCollection of Points. Each
// feature carries the properties the page's style, pointToLayer and
// onEachFeature callbacks read: color, fillColor, radius and popup.
func MarkersGeoJSON(view domain.MapView) ([]byte, error) {
	return FeatureCollection(view).MarshalJSON()
}

// FeatureCollection builds the marker collection without serializing it.
func FeatureCollection(view domain.MapView) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, m := range view.Markers {
		fc.Append(markerFeature(m))
	}
	fc.ExtraMembers = geojson.Properties{
		"metadata": map[string]interface{}{
			"title":              view.Title,
			"generated":          timeMillis(view.GeneratedAt),
			"count":              len(view.Markers),
			"skipped":            view.Skipped,
			"invalid_magnitudes": view.Invalid,
		},
	}
	return fc
}

func markerFeature(m domain.Marker) *geojson.Feature {
	f := geojson.NewFeature(orb.Point{m.Quake.Lon, m.Quake.Lat})
	if m.Quake.ID != "" {
		f.ID = m.Quake.ID
	}

	// NaN and Inf cannot be encoded as JSON; invalid readings go out as null.
	var mag interface{}
	if m.Quake.Magnitude.Validate() == nil {
		mag = m.Quake.Magnitude.Value
	}
	var when interface{}
	if !m.Quake.Time.IsZero() {
		when = timeMillis(m.Quake.Time)
	}

	f.Properties = geojson.Properties{
		"mag":       mag,
		"place":     m.Quake.Place,
		"time":      when,
		"url":       m.Quake.URL,
		"color":     m.Encoding.Color,
		"fillColor": m.Encoding.Color,
		"radius":    m.Encoding.Radius,
		"bucket":    m.Encoding.Bucket,
		"popup":     m.Popup,
	}
	return f
}

func timeMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
