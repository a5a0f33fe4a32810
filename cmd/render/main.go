// Command render fetches an earthquake feed once and writes a self-contained
// map page and the encoded markers as GeoJSON, for hosting without the server.
//
// Usage:
//
//	go run ./cmd/render \
//	  -feed-url https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary/2.5_day.geojson \
//	  -out-html public/index.html \
//	  -out-geojson public/earthquakes.geojson
//
// Use -feed-file instead of -feed-url to render a saved feed document.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/quake-map/internal/adapter/mapbox"
	"github.com/couchcryptid/quake-map/internal/adapter/usgs"
	"github.com/couchcryptid/quake-map/internal/config"
	"github.com/couchcryptid/quake-map/internal/observability"
	"github.com/couchcryptid/quake-map/internal/pipeline"
	"github.com/couchcryptid/quake-map/internal/render"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	feedURL := flag.String("feed-url", config.DefaultFeedURL, "USGS GeoJSON feed URL")
	feedFile := flag.String("feed-file", "", "read the feed from this file instead of -feed-url")
	outHTML := flag.String("out-html", "", "output path for the map page")
	outGeoJSON := flag.String("out-geojson", "", "output path for the encoded markers")
	token := flag.String("mapbox-token", os.Getenv("MAPBOX_TOKEN"), "Mapbox access token (OpenStreetMap tiles when empty)")
	lat := flag.Float64("center-lat", 37.09, "initial map center latitude")
	lon := flag.Float64("center-lon", -95.71, "initial map center longitude")
	zoom := flag.Int("zoom", 5, "initial zoom level")
	timeout := flag.Duration("timeout", 30*time.Second, "feed request timeout")
	flag.Parse()

	if *outHTML == "" && *outGeoJSON == "" {
		flag.Usage()
		return fmt.Errorf("at least one of -out-html, -out-geojson is required")
	}

	logger := observability.NewLogger("info", "text")

	var source pipeline.FeedSource = usgs.NewClient(*feedURL, *timeout, logger)
	if *feedFile != "" {
		source = usgs.NewFileSource(*feedFile, logger)
	}

	p := pipeline.New(source, logger, observability.NewMetrics())
	view, err := p.Build(context.Background())
	if err != nil {
		return err
	}
	log.Printf("%d markers (%d skipped, %d invalid magnitudes)", len(view.Markers), view.Skipped, view.Invalid)

	if *outGeoJSON != "" {
		data, err := render.MarkersGeoJSON(view)
		if err != nil {
			return err
		}
		if err := writeFile(*outGeoJSON, data); err != nil {
			return err
		}
		log.Printf("wrote %s", *outGeoJSON)
	}

	if *outHTML != "" {
		var buf bytes.Buffer
		opts := render.PageOptions{CenterLat: *lat, CenterLon: *lon, Zoom: *zoom, Layers: mapbox.BaseLayers(*token)}
		if err := render.WritePage(&buf, opts, view); err != nil {
			return err
		}
		if err := writeFile(*outHTML, buf.Bytes()); err != nil {
			return err
		}
		log.Printf("wrote %s", *outHTML)
	}
	return nil
}

// writeFile writes to a temp file and renames it so a reader never sees a partial page.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // public map assets
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
