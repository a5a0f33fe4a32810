package mapbox

import (
	"net/url"

	"github.com/couchcryptid/quake-map/internal/domain"
)

const (
	mapboxAttribution = `Map data &copy; <a href="https://www.openstreetmap.org/">OpenStreetMap</a> contributors, ` +
		`<a href="https://creativecommons.org/licenses/by-sa/2.0/">CC-BY-SA</a>, Imagery &copy; <a href="https://www.mapbox.com/">Mapbox</a>`
	osmAttribution = `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`

	maxZoom = 18
)

// styles lists the base layers in toggle order; the first is shown on load.
var styles = []struct {
	name  string
	style string
}{
	{name: "Street Map", style: "streets-v12"},
	{name: "Dark Map", style: "dark-v11"},
}

// BaseLayers returns the tile layers for the base-layer toggle. Without a
// token only the OpenStreetMap layer is offered.
func BaseLayers(token string) []domain.BaseLayer {
	if token == "" {
		return []domain.BaseLayer{OpenStreetMap()}
	}
	layers := make([]domain.BaseLayer, 0, len(styles))
	for _, s := range styles {
		layers = append(layers, domain.BaseLayer{
			Name:        s.name,
			URL:         styleTileURL(s.style, token),
			Attribution: mapboxAttribution,
			MaxZoom:     maxZoom,
			TileSize:    512,
			ZoomOffset:  -1,
		})
	}
	return layers
}

// OpenStreetMap is the token-free fallback layer.
func OpenStreetMap() domain.BaseLayer {
	return domain.BaseLayer{
		Name:        "Street Map",
		URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: osmAttribution,
		MaxZoom:     19,
	}
}

// styleTileURL builds a Leaflet URL template for a Mapbox style. The
// {z}/{x}/{y} placeholders are left for Leaflet to fill in.
func styleTileURL(style, token string) string {
	return "https://api.mapbox.com/styles/v1/mapbox/" + style +
		"/tiles/{z}/{x}/{y}?access_token=" + url.QueryEscape(token)
}
