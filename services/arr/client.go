// Package arr talks to Radarr and Sonarr. The featured pipeline uses it to
// flag items already in the library or downloading; the API layer uses it
// to push selections.
package arr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Instance kinds.
const (
	KindRadarr = "radarr"
	KindSonarr = "sonarr"
)

// ErrNotConfigured is returned when the instance has no URL or API key.
var ErrNotConfigured = errors.New("arr instance is not configured")

// LibraryItem is one movie or series known to the instance.
type LibraryItem struct {
	ID        int64 `json:"id"`
	TMDBID    int64 `json:"tmdbId"`
	TVDBID    int64 `json:"tvdbId"`
	HasFile   bool  `json:"hasFile"`
	Monitored bool  `json:"monitored"`
}

// queuePage is the paged response of the v3 queue endpoint.
type queuePage struct {
	Records []struct {
		MovieID  int64  `json:"movieId"`
		SeriesID int64  `json:"seriesId"`
		Status   string `json:"status"`
	} `json:"records"`
}

// AddMovieRequest describes a Radarr movie push.
type AddMovieRequest struct {
	TMDBID           int64  `json:"tmdbId"`
	Title            string `json:"title"`
	QualityProfileID int    `json:"qualityProfileId"`
	RootFolderPath   string `json:"rootFolderPath"`
	Monitored        bool   `json:"monitored"`
}

// AddSeriesRequest describes a Sonarr series push.
type AddSeriesRequest struct {
	TVDBID           int64  `json:"tvdbId"`
	Title            string `json:"title"`
	QualityProfileID int    `json:"qualityProfileId"`
	RootFolderPath   string `json:"rootFolderPath"`
	Monitored        bool   `json:"monitored"`
}

// Client is a minimal v3 API client for one Radarr or Sonarr instance.
type Client struct {
	kind    string
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(kind, baseURL, apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		kind:    kind,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   httpc,
	}
}

func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

func (c *Client) Kind() string {
	return c.kind
}

// Library lists everything the instance manages.
func (c *Client) Library(ctx context.Context) ([]LibraryItem, error) {
	resource := "movie"
	if c.kind == KindSonarr {
		resource = "series"
	}
	var items []LibraryItem
	if err := c.do(ctx, http.MethodGet, "/api/v3/"+resource, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// QueuedIDs returns the library ids of items currently in the download
// queue.
func (c *Client) QueuedIDs(ctx context.Context) (map[int64]bool, error) {
	var page queuePage
	if err := c.do(ctx, http.MethodGet, "/api/v3/queue?pageSize=1000", nil, &page); err != nil {
		return nil, err
	}
	ids := make(map[int64]bool, len(page.Records))
	for _, rec := range page.Records {
		if rec.MovieID != 0 {
			ids[rec.MovieID] = true
		}
		if rec.SeriesID != 0 {
			ids[rec.SeriesID] = true
		}
	}
	return ids, nil
}

// AddMovie pushes a movie to Radarr.
func (c *Client) AddMovie(ctx context.Context, req AddMovieRequest) error {
	if c.kind != KindRadarr {
		return fmt.Errorf("AddMovie requires a radarr instance, got %s", c.kind)
	}
	return c.do(ctx, http.MethodPost, "/api/v3/movie", req, nil)
}

// AddSeries pushes a series to Sonarr.
func (c *Client) AddSeries(ctx context.Context, req AddSeriesRequest) error {
	if c.kind != KindSonarr {
		return fmt.Errorf("AddSeries requires a sonarr instance, got %s", c.kind)
	}
	return c.do(ctx, http.MethodPost, "/api/v3/series", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, v any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", c.kind, err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.kind, err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", c.kind, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %s", c.kind, resp.Status)
	}

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("decode %s response: %w", c.kind, err)
		}
	}
	return nil
}
