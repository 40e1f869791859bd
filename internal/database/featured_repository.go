package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"curatarr/models"
)

// CacheRecordID is the fixed key of the singleton featured-content record.
const CacheRecordID = "featured"

// FeaturedRepository persists the singleton featured-content cache record.
type FeaturedRepository struct {
	db *sql.DB
}

func NewFeaturedRepository(db *sql.DB) *FeaturedRepository {
	return &FeaturedRepository{db: db}
}

// Get returns the cache record, or nil if none has been written yet.
func (r *FeaturedRepository) Get() (*models.CacheRecord, error) {
	row := r.db.QueryRow(
		`SELECT content, last_refreshed_at, ttl_seconds FROM featured_cache WHERE id = ?`,
		CacheRecordID,
	)

	var (
		blob        string
		refreshedAt int64
		ttlSeconds  int
	)
	if err := row.Scan(&blob, &refreshedAt, &ttlSeconds); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query cache record: %w", err)
	}

	var content models.FeaturedContent
	if err := json.Unmarshal([]byte(blob), &content); err != nil {
		return nil, fmt.Errorf("decode cache record: %w", err)
	}

	return &models.CacheRecord{
		ID:              CacheRecordID,
		Content:         content,
		LastRefreshedAt: time.Unix(refreshedAt, 0),
		TTLSeconds:      ttlSeconds,
	}, nil
}

// Upsert replaces the singleton record wholesale. The record is never
// partially mutated.
func (r *FeaturedRepository) Upsert(content models.FeaturedContent, refreshedAt time.Time, ttlSeconds int) error {
	blob, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("encode cache record: %w", err)
	}

	_, err = r.db.Exec(
		`INSERT INTO featured_cache (id, content, last_refreshed_at, ttl_seconds)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   content = excluded.content,
		   last_refreshed_at = excluded.last_refreshed_at,
		   ttl_seconds = excluded.ttl_seconds`,
		CacheRecordID, string(blob), refreshedAt.Unix(), ttlSeconds,
	)
	if err != nil {
		return fmt.Errorf("upsert cache record: %w", err)
	}
	return nil
}

// Delete removes the record. Deleting an absent record is not an error.
func (r *FeaturedRepository) Delete() error {
	if _, err := r.db.Exec(`DELETE FROM featured_cache WHERE id = ?`, CacheRecordID); err != nil {
		return fmt.Errorf("delete cache record: %w", err)
	}
	return nil
}
