// Package tmdb implements a minimal TMDb v3 client for enriching featured
// releases with metadata.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/avast/retry-go/v4"

	"curatarr/models"
)

const defaultBaseURL = "https://api.themoviedb.org/3"

// ErrNotConfigured is returned by every call when no API key is set.
var ErrNotConfigured = errors.New("tmdb api key is not configured")

// ErrNoMatch is returned by the search helpers when nothing was found.
var ErrNoMatch = errors.New("no tmdb match")

type Client struct {
	baseURL  string
	apiKey   string
	language string
	httpc    *http.Client
}

// NewClient creates a TMDb client. A missing API key is logged once here;
// subsequent calls return ErrNotConfigured and enrichment skips them.
func NewClient(apiKey, language string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	if language == "" {
		language = "en-US"
	}
	if apiKey == "" {
		log.Printf("[tmdb] no API key configured; metadata enrichment disabled")
	}
	return &Client{
		baseURL:  defaultBaseURL,
		apiKey:   apiKey,
		language: language,
		httpc:    httpc,
	}
}

// SetBaseURL overrides the API base URL (tests).
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// IsConfigured reports whether the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

type genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type detailsResponse struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	Genres       []genre `json:"genres"`
}

type searchResponse struct {
	Results []struct {
		ID           int64   `json:"id"`
		Title        string  `json:"title"`
		Name         string  `json:"name"`
		Overview     string  `json:"overview"`
		PosterPath   string  `json:"poster_path"`
		BackdropPath string  `json:"backdrop_path"`
		ReleaseDate  string  `json:"release_date"`
		FirstAirDate string  `json:"first_air_date"`
		VoteAverage  float64 `json:"vote_average"`
		GenreIDs     []int64 `json:"genre_ids"`
	} `json:"results"`
}

// Details fetches full metadata for a known TMDb id.
func (c *Client) Details(ctx context.Context, mediaType models.MediaType, id int64) (*models.TMDBInfo, error) {
	path := "/movie/" + strconv.FormatInt(id, 10)
	if mediaType == models.MediaTypeTV {
		path = "/tv/" + strconv.FormatInt(id, 10)
	}

	var resp detailsResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}
	return detailsToInfo(resp), nil
}

// SearchByTitle looks up a title and returns the first result's metadata.
func (c *Client) SearchByTitle(ctx context.Context, mediaType models.MediaType, title string) (*models.TMDBInfo, error) {
	path := "/search/movie"
	if mediaType == models.MediaTypeTV {
		path = "/search/tv"
	}

	q := url.Values{}
	q.Set("query", title)

	var resp searchResponse
	if err := c.get(ctx, path, q, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNoMatch
	}

	first := resp.Results[0]
	info := &models.TMDBInfo{
		ID:           first.ID,
		Title:        first.Title,
		Overview:     first.Overview,
		PosterPath:   first.PosterPath,
		BackdropPath: first.BackdropPath,
		ReleaseDate:  first.ReleaseDate,
		VoteAverage:  first.VoteAverage,
		GenreIDs:     first.GenreIDs,
	}
	if info.Title == "" {
		info.Title = first.Name
	}
	if info.ReleaseDate == "" {
		info.ReleaseDate = first.FirstAirDate
	}
	return info, nil
}

func detailsToInfo(resp detailsResponse) *models.TMDBInfo {
	info := &models.TMDBInfo{
		ID:           resp.ID,
		Title:        resp.Title,
		Overview:     resp.Overview,
		PosterPath:   resp.PosterPath,
		BackdropPath: resp.BackdropPath,
		ReleaseDate:  resp.ReleaseDate,
		VoteAverage:  resp.VoteAverage,
	}
	if info.Title == "" {
		info.Title = resp.Name
	}
	if info.ReleaseDate == "" {
		info.ReleaseDate = resp.FirstAirDate
	}
	for _, g := range resp.Genres {
		info.GenreIDs = append(info.GenreIDs, g.ID)
		info.Genres = append(info.Genres, g.Name)
	}
	return info
}

// get performs an authenticated GET with retries on transient failures.
// 4xx responses are not retried; the upstream answer will not change.
func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	if q == nil {
		q = url.Values{}
	}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	endpoint := c.baseURL + path + "?" + q.Encode()

	return retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			resp, err := c.httpc.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode >= 500 {
				return fmt.Errorf("tmdb returned %s", resp.Status)
			}
			if resp.StatusCode != http.StatusOK {
				return retry.Unrecoverable(fmt.Errorf("tmdb returned %s", resp.Status))
			}

			if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
				return retry.Unrecoverable(fmt.Errorf("decode tmdb response: %w", err))
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(250*time.Millisecond),
		retry.LastErrorOnly(true),
	)
}
