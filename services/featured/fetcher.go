package featured

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"curatarr/models"
	"curatarr/services/prowlarr"
)

// searchClient is the slice of the Prowlarr client the fetcher uses.
type searchClient interface {
	IsConfigured() bool
	Search(ctx context.Context, req prowlarr.SearchRequest) ([]prowlarr.Release, error)
}

// categorySource supplies the enabled category definitions, in display
// order. Backed by the sqlite category repository.
type categorySource interface {
	ListEnabled() ([]models.CategoryDefinition, error)
}

const maxConcurrentCategoryFetches = 4

// Fetcher builds a fresh featured-content snapshot from the indexer
// aggregator. One failed category never takes down the others: it just
// contributes an empty row and a failed entry in the refresh report.
type Fetcher struct {
	indexer    searchClient
	categories categorySource
	pickIndex  func(n int) int
}

func NewFetcher(indexer searchClient, categories categorySource) *Fetcher {
	return &Fetcher{
		indexer:    indexer,
		categories: categories,
		pickIndex:  rand.Intn,
	}
}

// Configured reports whether the indexer aggregator is reachable at all.
func (f *Fetcher) Configured() bool {
	return f.indexer.IsConfigured()
}

// FetchFresh fetches every enabled category concurrently and assembles the
// snapshot. The returned error is reserved for pipeline-wide failures
// (no category definitions available); per-category failures are reported
// in the CategoryRefresh slice instead.
func (f *Fetcher) FetchFresh(ctx context.Context) (models.FeaturedContent, []models.CategoryRefresh, error) {
	defs, err := f.categories.ListEnabled()
	if err != nil {
		return models.FeaturedContent{}, nil, fmt.Errorf("list categories: %w", err)
	}
	if len(defs) == 0 {
		return models.FeaturedContent{}, nil, fmt.Errorf("no enabled categories")
	}

	rows := make([]models.FeaturedCategory, len(defs))
	reports := make([]models.CategoryRefresh, len(defs))
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(maxConcurrentCategoryFetches)
	for i, def := range defs {
		i, def := i, def
		p.Go(func() {
			items, fetchErr := f.fetchCategory(ctx, def)

			mu.Lock()
			defer mu.Unlock()
			rows[i] = models.FeaturedCategory{
				ID:    def.ID,
				Title: def.Title,
				Items: items,
			}
			report := models.CategoryRefresh{
				Category:  def.ID,
				Success:   fetchErr == nil,
				ItemCount: len(items),
			}
			if fetchErr != nil {
				report.Error = fetchErr.Error()
				log.Printf("[featured] category %s fetch failed: %v", def.ID, fetchErr)
			}
			reports[i] = report
		})
	}
	p.Wait()

	// Overlapping category queries can return the same release. Keep the
	// first occurrence in category sort order so a guid shows up once per
	// snapshot.
	seen := make(map[string]struct{})
	for i := range rows {
		kept := rows[i].Items[:0]
		for _, item := range rows[i].Items {
			if _, dup := seen[item.GUID]; dup {
				continue
			}
			seen[item.GUID] = struct{}{}
			kept = append(kept, item)
		}
		rows[i].Items = kept
		reports[i].ItemCount = len(kept)
	}

	content := models.FeaturedContent{Categories: rows}
	content.Hero = f.pickHero(&content)
	return content, reports, nil
}

func (f *Fetcher) fetchCategory(ctx context.Context, def models.CategoryDefinition) ([]models.FeaturedItem, error) {
	releases, err := f.indexer.Search(ctx, prowlarr.SearchRequest{
		Query:     def.Query,
		MediaType: def.MediaType,
		Limit:     def.Limit,
	})
	if err != nil {
		return []models.FeaturedItem{}, err
	}

	items := make([]models.FeaturedItem, 0, len(releases))
	for _, release := range releases {
		if release.GUID == "" {
			continue
		}
		items = append(items, releaseToItem(release, def.MediaType))
	}
	return items, nil
}

func releaseToItem(release prowlarr.Release, mediaType models.MediaType) models.FeaturedItem {
	item := models.FeaturedItem{
		GUID:      release.GUID,
		IndexerID: release.IndexerID,
		Title:     release.Title,
		SizeBytes: release.Size,
		Protocol:  release.Protocol,
		MediaType: mediaType,
		TMDBID:    release.TMDBID,
	}
	item.ApplyDisplayFields()
	return item
}

// pickHero selects one item uniformly at random from every category row.
// An all-empty snapshot has no hero.
func (f *Fetcher) pickHero(content *models.FeaturedContent) *models.FeaturedItem {
	var candidates []models.FeaturedItem
	for _, row := range content.Categories {
		candidates = append(candidates, row.Items...)
	}
	if len(candidates) == 0 {
		return nil
	}
	hero := candidates[f.pickIndex(len(candidates))]
	return &hero
}
