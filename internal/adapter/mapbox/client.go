package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Client talks to the Mapbox tokens API so a bad MAPBOX_TOKEN is caught at
// startup instead of as a grey map in the browser.
type Client struct {
	token      string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Mapbox API client.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token: token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com",
		logger:  logger,
	}
}

// ValidateToken reports whether the token is accepted by Mapbox. A non-nil
// error means the check itself could not be completed.
func (c *Client) ValidateToken(ctx context.Context) (bool, error) {
	params := url.Values{"access_token": {c.token}}
	u := c.baseURL + "/tokens/v2?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusUnauthorized {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	if tr.Code != "TokenValid" {
		c.logger.Warn("mapbox token rejected", "code", tr.Code)
		return false, nil
	}
	return true, nil
}

// Mapbox API response types.

type tokenResponse struct {
	Code string `json:"code"` // TokenValid, TokenInvalid, TokenExpired, TokenRevoked, TokenMalformed
}
