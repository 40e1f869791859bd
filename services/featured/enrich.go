package featured

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"curatarr/models"
)

// metadataClient is the slice of the TMDb client the enricher uses.
type metadataClient interface {
	IsConfigured() bool
	Details(ctx context.Context, mediaType models.MediaType, id int64) (*models.TMDBInfo, error)
	SearchByTitle(ctx context.Context, mediaType models.MediaType, title string) (*models.TMDBInfo, error)
}

const enrichBatchSize = 10

// Enricher decorates featured items with TMDb metadata. Lookups are
// deduplicated so a title that appears in several rows costs one request,
// and run in batches so a large snapshot cannot flood the API.
type Enricher struct {
	metadata metadataClient
}

func NewEnricher(metadata metadataClient) *Enricher {
	return &Enricher{metadata: metadata}
}

// enrichTarget is one deduplicated lookup plus every item waiting on it.
type enrichTarget struct {
	mediaType models.MediaType
	tmdbID    int64
	title     string
	items     []*models.FeaturedItem
}

// Enrich fills in TMDb metadata for every unenriched item in the snapshot,
// in place. Items whose lookup fails keep their raw-title display fallback;
// enrichment never fails the snapshot.
func (e *Enricher) Enrich(ctx context.Context, content *models.FeaturedContent) {
	if !e.metadata.IsConfigured() {
		return
	}

	targets := collectTargets(content)
	if len(targets) == 0 {
		return
	}

	var mu sync.Mutex
	for start := 0; start < len(targets); start += enrichBatchSize {
		end := start + enrichBatchSize
		if end > len(targets) {
			end = len(targets)
		}

		p := pool.New().WithMaxGoroutines(enrichBatchSize)
		for _, target := range targets[start:end] {
			target := target
			p.Go(func() {
				info, err := e.resolve(ctx, target)
				if err != nil {
					log.Printf("[featured] enrichment failed for %q: %v", target.title, err)
					return
				}

				mu.Lock()
				defer mu.Unlock()
				for _, item := range target.items {
					item.TMDBID = info.ID
					item.TMDBInfo = info
					item.ApplyDisplayFields()
				}
			})
		}
		p.Wait()
	}
}

func (e *Enricher) resolve(ctx context.Context, target *enrichTarget) (*models.TMDBInfo, error) {
	if target.tmdbID != 0 {
		return e.metadata.Details(ctx, target.mediaType, target.tmdbID)
	}
	return e.metadata.SearchByTitle(ctx, target.mediaType, target.title)
}

// collectTargets walks the snapshot and groups unenriched items by lookup
// key, preserving first-seen order.
func collectTargets(content *models.FeaturedContent) []*enrichTarget {
	byKey := make(map[string]*enrichTarget)
	var ordered []*enrichTarget

	for _, item := range content.AllItems() {
		if item.Enriched() {
			continue
		}

		var key, title string
		if item.TMDBID != 0 {
			key = fmt.Sprintf("%s#%d", item.MediaType, item.TMDBID)
			title = item.Title
		} else {
			parsed := ParseReleaseTitle(item.Title)
			if parsed.Title == "" {
				continue
			}
			title = parsed.Title
			key = fmt.Sprintf("%s@%s", item.MediaType, strings.ToLower(parsed.Title))
		}

		target, ok := byKey[key]
		if !ok {
			target = &enrichTarget{
				mediaType: item.MediaType,
				tmdbID:    item.TMDBID,
				title:     title,
			}
			byKey[key] = target
			ordered = append(ordered, target)
		}
		target.items = append(target.items, item)
	}

	return ordered
}
