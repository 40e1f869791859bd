package featured

import (
	"log"
	"time"

	"curatarr/models"
)

// cacheRepository is the persistence surface the cache store needs. The
// sqlite repository satisfies it; tests swap in fakes.
type cacheRepository interface {
	Get() (*models.CacheRecord, error)
	Upsert(content models.FeaturedContent, refreshedAt time.Time, ttlSeconds int) error
	Delete() error
}

// CacheStore is the TTL view over the persisted featured-content record.
// Validity is derived from the record's own refresh timestamp, so a record
// written by a previous process run ages correctly across restarts.
type CacheStore struct {
	repo       cacheRepository
	ttlSeconds int
	now        func() time.Time
}

func NewCacheStore(repo cacheRepository, ttlSeconds int) *CacheStore {
	if ttlSeconds <= 0 {
		ttlSeconds = 3600
	}
	return &CacheStore{
		repo:       repo,
		ttlSeconds: ttlSeconds,
		now:        time.Now,
	}
}

// Read returns the cached record, valid or not. Store failures degrade to a
// cache miss so callers can fall through to a live fetch.
func (s *CacheStore) Read() *models.CacheRecord {
	record, err := s.repo.Get()
	if err != nil {
		log.Printf("[featured] cache read failed, treating as miss: %v", err)
		return nil
	}
	return record
}

// Write persists the content with a fresh timestamp. Unlike Read, write
// failures propagate: the caller decides whether to serve the content anyway.
func (s *CacheStore) Write(content models.FeaturedContent) error {
	return s.repo.Upsert(content, s.now(), s.ttlSeconds)
}

// Clear drops the record. Clearing an empty cache is a no-op.
func (s *CacheStore) Clear() error {
	return s.repo.Delete()
}

// IsValid reports whether the record is inside its TTL window.
func (s *CacheStore) IsValid(record *models.CacheRecord) bool {
	if record == nil {
		return false
	}
	return s.TimeRemaining(record) > 0
}

// TimeRemaining returns how long the record stays valid, floored at zero.
func (s *CacheStore) TimeRemaining(record *models.CacheRecord) time.Duration {
	if record == nil {
		return 0
	}
	// A record without a positive TTL is never valid. Write always stamps
	// one, so this only guards records touched outside this process.
	if record.TTLSeconds <= 0 {
		return 0
	}
	expiry := record.LastRefreshedAt.Add(time.Duration(record.TTLSeconds) * time.Second)
	remaining := expiry.Sub(s.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}
