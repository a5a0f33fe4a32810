package usgs

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	contentTypeGeoJSON = "application/geo+json"
	headerContentType  = "Content-Type"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func samplePath() string {
	return filepath.Join("..", "..", "..", "data", "mock", "usgs_sample_week.geojson")
}

func readSample(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(samplePath())
	require.NoError(t, err)
	return data
}

func feedServer(t *testing.T, status int, body []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set(headerContentType, contentTypeGeoJSON)
		w.WriteHeader(status)
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Fetch_Success(t *testing.T) {
	srv := feedServer(t, http.StatusOK, readSample(t))

	c := NewClient(srv.URL, 5*time.Second, discardLogger())
	feed, err := c.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "USGS Magnitude 1.0+ Earthquakes, Past Week", feed.Title)
	require.Len(t, feed.Quakes, 7)
	assert.Equal(t, 1, feed.Skipped)

	first := feed.Quakes[0]
	assert.Equal(t, "us7000m9g4", first.ID)
	assert.Equal(t, domain.Magnitude(6.3), first.Magnitude)
	assert.Equal(t, "10km N of X", first.Place)
	assert.Equal(t, 121.65, first.Lon)
	assert.Equal(t, 23.82, first.Lat)

	nullMag := feed.Quakes[6]
	assert.False(t, nullMag.Magnitude.Present)
	assert.Equal(t, domain.UnknownPlace, nullMag.Place)
}

func TestClient_Fetch_EmptyFeatures(t *testing.T) {
	srv := feedServer(t, http.StatusOK, []byte(`{"type":"FeatureCollection","features":[]}`))

	feed, err := NewClient(srv.URL, 5*time.Second, discardLogger()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, feed.Quakes)
	assert.Zero(t, feed.Skipped)
}

func TestClient_Fetch_MissingFeatures(t *testing.T) {
	srv := feedServer(t, http.StatusOK, []byte(`{"type":"FeatureCollection","metadata":{"title":"empty"}}`))

	feed, err := NewClient(srv.URL, 5*time.Second, discardLogger()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, feed.Quakes)
	assert.Equal(t, "empty", feed.Title)
}

func TestClient_Fetch_APIError(t *testing.T) {
	srv := feedServer(t, http.StatusServiceUnavailable, []byte("maintenance"))

	_, err := NewClient(srv.URL, 5*time.Second, discardLogger()).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "maintenance")
}

func TestClient_Fetch_InvalidJSON(t *testing.T) {
	srv := feedServer(t, http.StatusOK, []byte("{not json"))

	_, err := NewClient(srv.URL, 5*time.Second, discardLogger()).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode feed")
}

func TestClient_Fetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 50*time.Millisecond, discardLogger()).Fetch(context.Background())
	require.Error(t, err)
}

func TestClient_Fetch_ContextCancelled(t *testing.T) {
	srv := feedServer(t, http.StatusOK, readSample(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(srv.URL, 5*time.Second, discardLogger()).Fetch(ctx)
	require.Error(t, err)
}

func TestFileSource_Fetch(t *testing.T) {
	feed, err := NewFileSource(samplePath(), discardLogger()).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, feed.Quakes, 7)

	_, err = NewFileSource("does-not-exist.geojson", discardLogger()).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read feed file")
}

func TestDecodeFeed_NotACollection(t *testing.T) {
	_, err := DecodeFeed([]byte(`{"type":"Feature","properties":{},"geometry":null}`), discardLogger())
	require.Error(t, err)
}

func TestDecodeFeed_NoTypeMember(t *testing.T) {
	_, err := DecodeFeed([]byte(`{"features":[]}`), discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode feed")
}

func TestDecodeFeed_SkipsPointsWithoutCoordinates(t *testing.T) {
	data := []byte(`{
		"type": "FeatureCollection",
		"features": [
			{"type": "Feature", "id": "empty", "properties": {"mag": 2}, "geometry": {"type": "Point", "coordinates": []}},
			{"type": "Feature", "id": "short", "properties": {"mag": 2}, "geometry": {"type": "Point", "coordinates": [12.5]}},
			{"type": "Feature", "id": "ok", "properties": {"mag": 2}, "geometry": {"type": "Point", "coordinates": [12.5, -8.1, 33]}},
			{"type": "Feature", "id": "null", "properties": {"mag": 2}, "geometry": null}
		]
	}`)

	feed, err := DecodeFeed(data, discardLogger())
	require.NoError(t, err)
	require.Len(t, feed.Quakes, 1)
	assert.Equal(t, "ok", feed.Quakes[0].ID)
	assert.Equal(t, 12.5, feed.Quakes[0].Lon)
	assert.Equal(t, -8.1, feed.Quakes[0].Lat)
	assert.Equal(t, 3, feed.Skipped)
}

func TestDecodeCollection_KeepsOriginOnlyWhenGiven(t *testing.T) {
	fc, err := DecodeCollection([]byte(`{
		"type": "FeatureCollection",
		"features": [{"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [0, 0]}}]
	}`))
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.NotNil(t, fc.Features[0].Geometry)
}
