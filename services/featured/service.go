package featured

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"curatarr/models"
)

// snapshotFetcher builds fresh content from the indexer aggregator.
type snapshotFetcher interface {
	Configured() bool
	FetchFresh(ctx context.Context) (models.FeaturedContent, []models.CategoryRefresh, error)
}

// snapshotEnricher decorates a snapshot with metadata, in place.
type snapshotEnricher interface {
	Enrich(ctx context.Context, content *models.FeaturedContent)
}

// libraryFlagger stamps library ownership flags onto a snapshot.
type libraryFlagger interface {
	Apply(ctx context.Context, content *models.FeaturedContent)
}

// Service is the featured-content orchestrator: read-through cache in
// front of the fetch/enrich/flag pipeline. Get never returns an error;
// when everything upstream is broken it falls back to the static mock
// snapshot.
type Service struct {
	cache    *CacheStore
	fetcher  snapshotFetcher
	enricher snapshotEnricher
	flags    libraryFlagger
	demo     bool
	now      func() time.Time
}

func NewService(cache *CacheStore, fetcher snapshotFetcher, enricher snapshotEnricher, flags libraryFlagger, demo bool) *Service {
	return &Service{
		cache:    cache,
		fetcher:  fetcher,
		enricher: enricher,
		flags:    flags,
		demo:     demo,
		now:      time.Now,
	}
}

// Get returns featured content, preferring the cache. A valid cached
// snapshot is served as-is; an expired or missing one triggers a live
// refresh. A failed refresh gets one more attempt, and after that the
// static mock snapshot is the answer: callers always receive well-formed
// content.
func (s *Service) Get(ctx context.Context) models.FeaturedContent {
	if s.demo {
		return MockContent()
	}

	record := s.cache.Read()
	if s.cache.IsValid(record) {
		return record.Content
	}

	content, summary := s.Refresh(ctx)
	if summary.Success {
		return content
	}
	log.Printf("[featured] live refresh failed, retrying once: %s", summary.Error)

	content, summary = s.Refresh(ctx)
	if summary.Success {
		return content
	}
	log.Printf("[featured] retry failed, serving mock content: %s", summary.Error)
	return MockContent()
}

// Refresh runs the full pipeline regardless of cache validity and
// persists the result. Failed categories are reported per entry; the
// top-level Success flag only flips when the whole pipeline produced
// nothing usable. A cache-write failure is reported in the summary but
// the freshly built content is still returned.
func (s *Service) Refresh(ctx context.Context) (models.FeaturedContent, models.RefreshSummary) {
	summary := models.RefreshSummary{
		RunID:     uuid.NewString(),
		Timestamp: s.now(),
		Success:   true,
	}

	if s.demo || !s.fetcher.Configured() {
		content := MockContent()
		if err := s.cache.Write(content); err != nil {
			log.Printf("[featured] cache write failed: %v", err)
			summary.Error = "cache write failed: " + err.Error()
		}
		return content, summary
	}

	content, reports, err := s.fetcher.FetchFresh(ctx)
	if err != nil {
		summary.Success = false
		summary.Error = err.Error()
		return models.FeaturedContent{}, summary
	}
	summary.Categories = reports

	if allFailed(reports) {
		summary.Success = false
		summary.Error = "all categories failed"
		return models.FeaturedContent{}, summary
	}

	s.enricher.Enrich(ctx, &content)
	if s.flags != nil {
		s.flags.Apply(ctx, &content)
	}

	if err := s.cache.Write(content); err != nil {
		log.Printf("[featured] cache write failed: %v", err)
		summary.Error = "cache write failed: " + err.Error()
	}
	return content, summary
}

// ClearCache drops the persisted snapshot. The next Get rebuilds it.
func (s *Service) ClearCache() error {
	return s.cache.Clear()
}

// Status reports cache validity and remaining TTL without triggering a
// refresh.
func (s *Service) Status() models.CacheStatus {
	record := s.cache.Read()
	status := models.CacheStatus{
		Valid:               s.cache.IsValid(record),
		TTLSecondsRemaining: int(s.cache.TimeRemaining(record).Seconds()),
	}
	if record != nil {
		content := record.Content
		status.Content = &content
	}
	return status
}

func allFailed(reports []models.CategoryRefresh) bool {
	if len(reports) == 0 {
		return true
	}
	for _, report := range reports {
		if report.Success {
			return false
		}
	}
	return true
}
