package domain

import (
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// UnknownPlace is shown for features without a place description.
const UnknownPlace = "Unknown location"

// ErrMissingGeometry marks a feature that has no Point geometry and so cannot be placed on a map.
var ErrMissingGeometry = errors.New("feature has no point geometry")

// Quake is one earthquake event from the feed.
type Quake struct {
	ID        string
	Magnitude MagnitudeReading
	Place     string
	Time      time.Time // zero when the feed omitted it
	Lon       float64
	Lat       float64
	URL       string
}

// Feed is the decoded content of one feed document.
type Feed struct {
	Title   string
	Quakes  []Quake
	Skipped int // features dropped for missing geometry
}

// QuakeFromFeature maps a feed feature onto the Quake schema. Missing place and
// time fall back to UnknownPlace and the zero time; a null or non-numeric
// magnitude becomes an absent reading. Only a missing geometry is an error.
func QuakeFromFeature(f *geojson.Feature) (Quake, error) {
	if f == nil {
		return Quake{}, ErrMissingGeometry
	}
	pt, ok := f.Geometry.(orb.Point)
	if !ok {
		return Quake{}, fmt.Errorf("%w: got %T", ErrMissingGeometry, f.Geometry)
	}

	props := f.Properties
	q := Quake{
		Magnitude: magnitudeFrom(props),
		Place:     props.MustString("place", ""),
		Time:      timeFrom(props),
		Lon:       pt.Lon(),
		Lat:       pt.Lat(),
		URL:       props.MustString("url", ""),
	}
	if q.Place == "" {
		q.Place = UnknownPlace
	}
	if id, ok := f.ID.(string); ok {
		q.ID = id
	} else if f.ID != nil {
		q.ID = fmt.Sprint(f.ID)
	}
	return q, nil
}

func magnitudeFrom(props geojson.Properties) MagnitudeReading {
	if v, ok := props["mag"].(float64); ok {
		return Magnitude(v)
	}
	return MagnitudeReading{}
}

func timeFrom(props geojson.Properties) time.Time {
	ms, ok := props["time"].(float64)
	if !ok {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}

// Popup renders the HTML shown when a marker is clicked.
func Popup(q Quake) string {
	when := "time unknown"
	if !q.Time.IsZero() {
		when = q.Time.UTC().Format(time.RFC1123)
	}
	return fmt.Sprintf("<h3>%s  -  Magnitude:%s</h3><hr><p>%s</p>",
		html.EscapeString(q.Place), q.Magnitude, when)
}

// Marker is a quake ready to hand to the map layer.
type Marker struct {
	Quake    Quake
	Encoding VisualEncoding
	Popup    string
}

// NewMarker encodes a quake for display.
func NewMarker(q Quake) Marker {
	return Marker{Quake: q, Encoding: Encode(q.Magnitude), Popup: Popup(q)}
}

// MapView is the result of one fetch-and-encode pass.
type MapView struct {
	Title       string
	Markers     []Marker
	Skipped     int
	Invalid     int
	GeneratedAt time.Time
}

// NewMapView stamps a MapView with the current time in milliseconds.
func NewMapView(title string, markers []Marker, skipped, invalid int) MapView {
	return MapView{
		Title:       title,
		Markers:     markers,
		Skipped:     skipped,
		Invalid:     invalid,
		GeneratedAt: generatedAt(),
	}
}

// BaseLayer is a tile layer offered in the map's base-layer toggle.
type BaseLayer struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom"`
	TileSize    int    `json:"tileSize,omitempty"`
	ZoomOffset  int    `json:"zoomOffset,omitempty"`
}
