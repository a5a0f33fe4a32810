package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// DefaultTitle is used when the feed carries no metadata title.
const DefaultTitle = "Earthquakes"

// PageOptions holds the parts of the page that do not change per request.
type PageOptions struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
	Layers    []domain.BaseLayer
}

type pageData struct {
	Title       string
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	LayersJSON  template.JS
	QuakesJSON  template.JS
	Legend      template.HTML
	GeneratedAt string
	Count       int
}

// WritePage renders the full Leaflet map page for view.
func WritePage(w io.Writer, opts PageOptions, view domain.MapView) error {
	if len(opts.Layers) == 0 {
		return fmt.Errorf("render page: no base layers configured")
	}
	quakes, err := MarkersGeoJSON(view)
	if err != nil {
		return fmt.Errorf("render page: encode markers: %w", err)
	}
	layers, err := json.Marshal(opts.Layers)
	if err != nil {
		return fmt.Errorf("render page: encode layers: %w", err)
	}
	legend, err := Legend()
	if err != nil {
		return err
	}

	title := view.Title
	if title == "" {
		title = DefaultTitle
	}
	generated := ""
	if !view.GeneratedAt.IsZero() {
		generated = view.GeneratedAt.UTC().Format("Jan 2, 2006 15:04 UTC")
	}

	// json.Marshal escapes <, > and &, so the payloads are safe inside <script>.
	return pageTmpl.Execute(w, pageData{
		Title:       title,
		CenterLat:   opts.CenterLat,
		CenterLon:   opts.CenterLon,
		Zoom:        opts.Zoom,
		LayersJSON:  template.JS(layers), //nolint:gosec // json.Marshal output
		QuakesJSON:  template.JS(quakes), //nolint:gosec // json.Marshal output
		Legend:      legend,
		GeneratedAt: generated,
		Count:       len(view.Markers),
	})
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
  <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
  <style>
    html, body, #map { height: 100%; margin: 0; padding: 0; }
    .legend { background: #fff; padding: 6px 10px; border-radius: 4px; box-shadow: 0 0 12px rgba(0,0,0,0.2); line-height: 20px; }
    .legend h4 { margin: 0 0 4px; }
    .legend ul { list-style: none; margin: 0; padding: 0; }
    .legend .swatch { display: inline-block; width: 14px; height: 14px; margin-right: 6px; vertical-align: middle; }
    .legend .generated { font-size: 11px; color: #555; margin-top: 4px; }
  </style>
</head>
<body>
  <div id="map"></div>
  <div id="legend" class="info legend">{{.Legend}}<div class="generated">{{.Count}} events{{if .GeneratedAt}}, {{.GeneratedAt}}{{end}}</div></div>
  <script>
    const baseLayers = {{.LayersJSON}};
    const quakes = {{.QuakesJSON}};

    const tiles = {};
    baseLayers.forEach(function (l) {
      const opts = { attribution: l.attribution, maxZoom: l.maxZoom };
      if (l.tileSize) { opts.tileSize = l.tileSize; }
      if (l.zoomOffset) { opts.zoomOffset = l.zoomOffset; }
      tiles[l.name] = L.tileLayer(l.url, opts);
    });

    const earthquakes = L.geoJSON(quakes, {
      style: function (feature) {
        return { color: feature.properties.color, fillColor: feature.properties.fillColor };
      },
      pointToLayer: function (feature, latlng) {
        return L.circleMarker(latlng, { radius: feature.properties.radius, fillOpacity: 0.85 });
      },
      onEachFeature: function (feature, layer) {
        layer.bindPopup(feature.properties.popup);
      }
    });

    const map = L.map("map", {
      center: [{{.CenterLat}}, {{.CenterLon}}],
      zoom: {{.Zoom}},
      layers: [tiles[baseLayers[0].name], earthquakes]
    });

    L.control.layers(tiles, { "Earthquakes": earthquakes }, { collapsed: false }).addTo(map);

    const legend = L.control({ position: "bottomright" });
    legend.onAdd = function () {
      return document.getElementById("legend");
    };
    legend.addTo(map);
  </script>
</body>
</html>
`))
