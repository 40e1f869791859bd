package database

import (
	"database/sql"
	"fmt"
	"log"

	"curatarr/models"
)

// defaultCategories seeds the configuration table on first run.
var defaultCategories = []models.CategoryDefinition{
	{ID: "trending-movies", Title: "Trending Movies", MediaType: models.MediaTypeMovie, Query: "", Limit: 20, SortOrder: 1, Enabled: true},
	{ID: "trending-tv", Title: "Trending TV Shows", MediaType: models.MediaTypeTV, Query: "", Limit: 20, SortOrder: 2, Enabled: true},
	{ID: "recent-4k", Title: "Recent 4K Releases", MediaType: models.MediaTypeMovie, Query: "2160p", Limit: 12, SortOrder: 3, Enabled: true},
}

// CategoryRepository stores the category definitions that drive the
// featured rows.
type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// SeedDefaults inserts the default category set when the table is empty.
// Safe to call on every startup.
func (r *CategoryRepository) SeedDefaults() error {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM featured_categories`).Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, def := range defaultCategories {
		if err := r.Upsert(def); err != nil {
			return err
		}
	}
	log.Printf("[database] seeded %d default featured categories", len(defaultCategories))
	return nil
}

// ListEnabled returns the enabled category definitions ordered by sort
// order ascending.
func (r *CategoryRepository) ListEnabled() ([]models.CategoryDefinition, error) {
	return r.list(`SELECT id, title, media_type, query, item_limit, sort_order, enabled
		FROM featured_categories WHERE enabled = 1 ORDER BY sort_order ASC`)
}

// List returns all category definitions, enabled or not, ordered by sort
// order ascending.
func (r *CategoryRepository) List() ([]models.CategoryDefinition, error) {
	return r.list(`SELECT id, title, media_type, query, item_limit, sort_order, enabled
		FROM featured_categories ORDER BY sort_order ASC`)
}

func (r *CategoryRepository) list(query string) ([]models.CategoryDefinition, error) {
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var defs []models.CategoryDefinition
	for rows.Next() {
		var (
			def       models.CategoryDefinition
			mediaType string
			enabled   int
		)
		if err := rows.Scan(&def.ID, &def.Title, &mediaType, &def.Query, &def.Limit, &def.SortOrder, &enabled); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		def.MediaType = models.MediaType(mediaType)
		def.Enabled = enabled == 1
		defs = append(defs, def)
	}
	return defs, rows.Err()
}

// Upsert creates or replaces a category definition.
func (r *CategoryRepository) Upsert(def models.CategoryDefinition) error {
	enabled := 0
	if def.Enabled {
		enabled = 1
	}
	_, err := r.db.Exec(
		`INSERT INTO featured_categories (id, title, media_type, query, item_limit, sort_order, enabled)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   title = excluded.title,
		   media_type = excluded.media_type,
		   query = excluded.query,
		   item_limit = excluded.item_limit,
		   sort_order = excluded.sort_order,
		   enabled = excluded.enabled`,
		def.ID, def.Title, string(def.MediaType), def.Query, def.Limit, def.SortOrder, enabled,
	)
	if err != nil {
		return fmt.Errorf("upsert category: %w", err)
	}
	return nil
}

// Delete removes a category definition.
func (r *CategoryRepository) Delete(id string) error {
	if _, err := r.db.Exec(`DELETE FROM featured_categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}
