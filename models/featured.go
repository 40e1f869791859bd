package models

import (
	"fmt"
	"time"
)

type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// PlaceholderOverview is shown for items that never got a metadata match.
const PlaceholderOverview = "No description available."

// TMDBInfo is the enrichment block attached to a featured item once a
// TMDb match has been found.
type TMDBInfo struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"posterPath,omitempty"`
	BackdropPath string   `json:"backdropPath,omitempty"`
	ReleaseDate  string   `json:"releaseDate,omitempty"`
	VoteAverage  float64  `json:"voteAverage,omitempty"`
	GenreIDs     []int64  `json:"genreIds,omitempty"`
	Genres       []string `json:"genres,omitempty"`
}

// FeaturedItem is one release surfaced to the browse UI. GUID is unique
// within a snapshot; everything under the Display* fields is derived and
// must never be empty even when enrichment failed.
type FeaturedItem struct {
	GUID      string    `json:"guid"`
	IndexerID int64     `json:"indexerId"`
	Title     string    `json:"title"`
	SizeBytes int64     `json:"sizeBytes"`
	Protocol  string    `json:"protocol,omitempty"`
	MediaType MediaType `json:"mediaType"`

	// TMDBID is the id hint carried over from the indexer result, when the
	// indexer knew it. Zero means enrichment has to search by title.
	TMDBID int64 `json:"tmdbId,omitempty"`

	TMDBInfo *TMDBInfo `json:"tmdbInfo,omitempty"`

	DisplayTitle    string   `json:"displayTitle"`
	DisplayOverview string   `json:"displayOverview"`
	DisplayYear     int      `json:"displayYear,omitempty"`
	DisplayRating   float64  `json:"displayRating,omitempty"`
	DisplayGenres   []string `json:"displayGenres,omitempty"`

	InLibrary     bool `json:"inLibrary"`
	IsDownloading bool `json:"isDownloading"`
	IsProcessing  bool `json:"isProcessing"`
}

// ApplyDisplayFields recomputes the derived display fields from the
// enrichment block, falling back to the raw release fields when no
// enrichment is present.
func (i *FeaturedItem) ApplyDisplayFields() {
	if i.TMDBInfo == nil {
		i.DisplayTitle = i.Title
		if i.DisplayOverview == "" {
			i.DisplayOverview = PlaceholderOverview
		}
		return
	}

	info := i.TMDBInfo
	i.DisplayTitle = info.Title
	if i.DisplayTitle == "" {
		i.DisplayTitle = i.Title
	}
	i.DisplayOverview = info.Overview
	if i.DisplayOverview == "" {
		i.DisplayOverview = PlaceholderOverview
	}
	if len(info.ReleaseDate) >= 4 {
		var year int
		if _, err := fmt.Sscanf(info.ReleaseDate[:4], "%d", &year); err == nil {
			i.DisplayYear = year
		}
	}
	i.DisplayRating = info.VoteAverage
	if len(info.Genres) > 0 {
		i.DisplayGenres = info.Genres
	}
}

// Enriched reports whether the item already carries a metadata match.
func (i *FeaturedItem) Enriched() bool {
	return i.TMDBInfo != nil
}

// FeaturedCategory is a named, ordered row of items.
type FeaturedCategory struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Items []FeaturedItem `json:"items"`
}

// FeaturedContent is the unit of caching: one optional hero item plus the
// ordered category rows. It is always cached and replaced whole.
type FeaturedContent struct {
	Hero       *FeaturedItem      `json:"hero,omitempty"`
	Categories []FeaturedCategory `json:"categories"`
}

// AllItems returns the hero plus every category item, in order.
func (c *FeaturedContent) AllItems() []*FeaturedItem {
	var items []*FeaturedItem
	if c.Hero != nil {
		items = append(items, c.Hero)
	}
	for ci := range c.Categories {
		for ii := range c.Categories[ci].Items {
			items = append(items, &c.Categories[ci].Items[ii])
		}
	}
	return items
}

// CacheRecord wraps a FeaturedContent snapshot for persistence.
type CacheRecord struct {
	ID              string          `json:"id"`
	Content         FeaturedContent `json:"content"`
	LastRefreshedAt time.Time       `json:"lastRefreshedAt"`
	TTLSeconds      int             `json:"ttlSeconds"`
}

// CategoryDefinition configures one featured row: what to search for, how
// many items to keep, and where the row sorts relative to the others.
type CategoryDefinition struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	MediaType MediaType `json:"mediaType"`
	Query     string    `json:"query"`
	Limit     int       `json:"limit"`
	SortOrder int       `json:"sortOrder"`
	Enabled   bool      `json:"enabled"`
}

// CategoryRefresh is the per-category entry in a refresh summary.
type CategoryRefresh struct {
	Category  string `json:"category"`
	Success   bool   `json:"success"`
	ItemCount int    `json:"itemCount"`
	Error     string `json:"error,omitempty"`
}

// RefreshSummary describes the outcome of one refresh run. Category-level
// failures are captured per entry; only a pipeline-wide failure flips the
// top-level Success flag.
type RefreshSummary struct {
	RunID      string            `json:"runId"`
	Success    bool              `json:"success"`
	Timestamp  time.Time         `json:"timestamp"`
	Categories []CategoryRefresh `json:"refreshedCategories"`
	Error      string            `json:"error,omitempty"`
}

// CacheStatus is returned by the status endpoint.
type CacheStatus struct {
	Valid               bool             `json:"valid"`
	TTLSecondsRemaining int              `json:"ttlSecondsRemaining"`
	Content             *FeaturedContent `json:"content"`
}
