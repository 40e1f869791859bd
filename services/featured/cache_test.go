package featured

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curatarr/models"
)

type fakeCacheRepo struct {
	record    *models.CacheRecord
	getErr    error
	upsertErr error
	deleteErr error
	upserts   int
	deletes   int
}

func (f *fakeCacheRepo) Get() (*models.CacheRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.record, nil
}

func (f *fakeCacheRepo) Upsert(content models.FeaturedContent, refreshedAt time.Time, ttlSeconds int) error {
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.record = &models.CacheRecord{
		ID:              "featured",
		Content:         content,
		LastRefreshedAt: refreshedAt,
		TTLSeconds:      ttlSeconds,
	}
	return nil
}

func (f *fakeCacheRepo) Delete() error {
	f.deletes++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.record = nil
	return nil
}

func TestCacheStoreValidityWindow(t *testing.T) {
	repo := &fakeCacheRepo{}
	store := NewCacheStore(repo, 3600)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	require.NoError(t, store.Write(models.FeaturedContent{}))
	record := store.Read()
	require.NotNil(t, record)

	assert.True(t, store.IsValid(record))
	assert.Equal(t, time.Hour, store.TimeRemaining(record))

	// Remaining TTL only ever shrinks as the clock advances.
	store.now = func() time.Time { return base.Add(30 * time.Minute) }
	assert.Equal(t, 30*time.Minute, store.TimeRemaining(record))

	store.now = func() time.Time { return base.Add(time.Hour) }
	assert.False(t, store.IsValid(record))
	assert.Equal(t, time.Duration(0), store.TimeRemaining(record))

	// Long past expiry the remaining time floors at zero, never negative.
	store.now = func() time.Time { return base.Add(48 * time.Hour) }
	assert.Equal(t, time.Duration(0), store.TimeRemaining(record))
}

func TestCacheStoreNilRecordInvalid(t *testing.T) {
	store := NewCacheStore(&fakeCacheRepo{}, 3600)

	assert.False(t, store.IsValid(nil))
	assert.Equal(t, time.Duration(0), store.TimeRemaining(nil))
}

func TestCacheStoreReadDegradesToMiss(t *testing.T) {
	repo := &fakeCacheRepo{getErr: errors.New("disk on fire")}
	store := NewCacheStore(repo, 3600)

	assert.Nil(t, store.Read())
}

func TestCacheStoreWriteErrorPropagates(t *testing.T) {
	repo := &fakeCacheRepo{upsertErr: errors.New("disk full")}
	store := NewCacheStore(repo, 3600)

	assert.Error(t, store.Write(models.FeaturedContent{}))
}

func TestCacheStoreRecordTTLBeatsConfigured(t *testing.T) {
	repo := &fakeCacheRepo{}
	store := NewCacheStore(repo, 3600)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	// A record written under an older, shorter TTL expires on its own
	// schedule, not the currently configured one.
	record := &models.CacheRecord{
		LastRefreshedAt: base.Add(-10 * time.Minute),
		TTLSeconds:      300,
	}
	assert.False(t, store.IsValid(record))
}

func TestCacheStoreMissingTTLInvalid(t *testing.T) {
	repo := &fakeCacheRepo{}
	store := NewCacheStore(repo, 3600)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	// A record with no TTL of its own never counts as valid, even if the
	// configured TTL would still cover it.
	record := &models.CacheRecord{LastRefreshedAt: base}
	assert.False(t, store.IsValid(record))
	assert.Equal(t, time.Duration(0), store.TimeRemaining(record))

	record.TTLSeconds = -1
	assert.False(t, store.IsValid(record))
}

func TestCacheStoreClear(t *testing.T) {
	repo := &fakeCacheRepo{}
	store := NewCacheStore(repo, 3600)

	require.NoError(t, store.Write(models.FeaturedContent{}))
	require.NoError(t, store.Clear())
	assert.Nil(t, store.Read())

	// Clearing an already empty cache is fine.
	require.NoError(t, store.Clear())
}
