package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/paulmach/orb/geojson"
)

// maxFeedBytes bounds the feed body; the all_month feed is roughly 10 MB.
const maxFeedBytes = 64 << 20

// Client fetches a USGS GeoJSON summary feed over HTTP.
// It implements pipeline.FeedSource.
type Client struct {
	feedURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client for feedURL.
func NewClient(feedURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads and decodes the feed.
func (c *Client) Fetch(ctx context.Context) (domain.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.Feed{}, fmt.Errorf("usgs feed error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return domain.Feed{}, fmt.Errorf("read feed body: %w", err)
	}
	return DecodeFeed(data, c.logger)
}

// FileSource reads a saved feed document from disk.
// It implements pipeline.FeedSource.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	return &FileSource{path: path, logger: logger}
}

// Fetch reads and decodes the file. ctx is accepted for interface parity.
func (s *FileSource) Fetch(_ context.Context) (domain.Feed, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("read feed file: %w", err)
	}
	return DecodeFeed(data, s.logger)
}

// DecodeFeed parses a feed document. A missing or empty features array yields
// an empty Feed. Features without point geometry are skipped and counted.
func DecodeFeed(data []byte, logger *slog.Logger) (domain.Feed, error) {
	fc, err := DecodeCollection(data)
	if err != nil {
		return domain.Feed{}, err
	}

	feed := domain.Feed{
		Title:  feedTitle(fc),
		Quakes: make([]domain.Quake, 0, len(fc.Features)),
	}
	for i, f := range fc.Features {
		q, err := domain.QuakeFromFeature(f)
		if err != nil {
			logger.Warn("skipping feature", "index", i, "error", err)
			feed.Skipped++
			continue
		}
		feed.Quakes = append(feed.Quakes, q)
	}
	return feed, nil
}

// DecodeCollection unmarshals a feed document. orb reads a Point with an
// empty or one-element coordinates array as (0, 0) or (x, 0); those features
// have their geometry cleared so domain.QuakeFromFeature rejects them.
func DecodeCollection(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	var raw struct {
		Features []struct {
			Geometry *struct {
				Type        string            `json:"type"`
				Coordinates []json.RawMessage `json:"coordinates"`
			} `json:"geometry"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode feed coordinates: %w", err)
	}
	for i, rf := range raw.Features {
		if i >= len(fc.Features) || fc.Features[i] == nil {
			break
		}
		if g := rf.Geometry; g != nil && g.Type == "Point" && len(g.Coordinates) < 2 {
			fc.Features[i].Geometry = nil
		}
	}
	return fc, nil
}

// feedTitle reads metadata.title, which USGS sets to e.g. "USGS Magnitude 1.0+ Earthquakes, Past Week".
func feedTitle(fc *geojson.FeatureCollection) string {
	meta, ok := fc.ExtraMembers["metadata"].(map[string]interface{})
	if !ok {
		return ""
	}
	title, _ := meta["title"].(string)
	return title
}
