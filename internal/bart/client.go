// Package bart talks to the BART legacy API to keep the station asset current.
package bart

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"bartnow/internal/station"
)

// Client is an HTTP client for the BART legacy API.
type Client struct {
	baseURL string
	key     string
	client  *http.Client
	logger  *slog.Logger
}

// NewClient creates a BART API client.
func NewClient(baseURL, key string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		key:     key,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// StationsResult holds a station list download.
type StationsResult struct {
	NotModified  bool
	Body         []byte // raw asset, already validated
	Stations     []station.Station
	LastModified string
	ETag         string
}

// Stations fetches the station list. lastModified and etag make the request
// conditional; an unchanged list comes back with NotModified set.
func (c *Client) Stations(ctx context.Context, lastModified, etag string) (*StationsResult, error) {
	u := c.baseURL + "/stn.aspx?" + url.Values{
		"cmd":  {"stns"},
		"key":  {c.key},
		"json": {"y"},
	}.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if lastModified != "" {
		req.Header.Set("If-Modified-Since", lastModified)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET stations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		c.logger.Info("station list not modified")
		return &StationsResult{NotModified: true, LastModified: lastModified, ETag: etag}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, c.baseURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read stations: %w", err)
	}

	stations, err := station.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("validate stations: %w", err)
	}

	return &StationsResult{
		Body:         body,
		Stations:     stations,
		LastModified: resp.Header.Get("Last-Modified"),
		ETag:         resp.Header.Get("ETag"),
	}, nil
}
