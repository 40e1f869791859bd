// Package prowlarr implements a minimal Prowlarr v1 search client
// (the only endpoints the featured pipeline needs).
package prowlarr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"curatarr/models"
)

// ErrNotConfigured is returned when the client has no URL or API key.
var ErrNotConfigured = errors.New("prowlarr is not configured")

// Torznab top-level categories for movies and TV.
const (
	CategoryMovies = 2000
	CategoryTV     = 5000
)

// Release is a raw search result from Prowlarr, before it becomes a
// featured item.
type Release struct {
	GUID        string    `json:"guid"`
	IndexerID   int64     `json:"indexerId"`
	Title       string    `json:"title"`
	Size        int64     `json:"size"`
	Protocol    string    `json:"protocol"`
	PublishDate time.Time `json:"publishDate"`
	Seeders     int       `json:"seeders"`
	InfoURL     string    `json:"infoUrl"`
	TMDBID      int64     `json:"tmdbId"`
	IMDBID      string    `json:"imdbId"`
}

// SearchRequest describes one category fetch against the indexer
// aggregator.
type SearchRequest struct {
	Query     string
	MediaType models.MediaType
	Limit     int
}

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// NewClient creates a Prowlarr client. Empty URL or API key yields a
// client that reports IsConfigured() == false; callers degrade instead of
// failing.
func NewClient(baseURL, apiKey string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   httpc,
	}
}

// IsConfigured reports whether the client has enough configuration to
// reach the aggregator.
func (c *Client) IsConfigured() bool {
	return c.baseURL != "" && c.apiKey != ""
}

// Search runs one query against all of Prowlarr's configured indexers and
// returns the raw releases sorted as Prowlarr returns them.
func (c *Client) Search(ctx context.Context, req SearchRequest) ([]Release, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("query", req.Query)
	q.Set("type", "search")
	category := CategoryMovies
	if req.MediaType == models.MediaTypeTV {
		category = CategoryTV
	}
	q.Set("categories", strconv.Itoa(category))
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}

	endpoint := c.baseURL + "/api/v1/search?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("prowlarr search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prowlarr search returned %s", resp.Status)
	}

	var releases []Release
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	if req.Limit > 0 && len(releases) > req.Limit {
		releases = releases[:req.Limit]
	}
	return releases, nil
}
