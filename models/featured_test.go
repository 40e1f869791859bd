package models

import "testing"

func TestApplyDisplayFields_NoEnrichment(t *testing.T) {
	item := FeaturedItem{
		GUID:      "guid-1",
		Title:     "Some.Movie.2021.1080p.WEB-DL",
		MediaType: MediaTypeMovie,
	}

	item.ApplyDisplayFields()

	if item.DisplayTitle != item.Title {
		t.Errorf("expected raw title fallback, got %q", item.DisplayTitle)
	}
	if item.DisplayOverview != PlaceholderOverview {
		t.Errorf("expected placeholder overview, got %q", item.DisplayOverview)
	}
	if item.DisplayYear != 0 {
		t.Errorf("expected no display year, got %d", item.DisplayYear)
	}
}

func TestApplyDisplayFields_WithEnrichment(t *testing.T) {
	item := FeaturedItem{
		GUID:  "guid-2",
		Title: "Some.Movie.2021.1080p.WEB-DL",
		TMDBInfo: &TMDBInfo{
			ID:          603,
			Title:       "Some Movie",
			Overview:    "A movie about things.",
			ReleaseDate: "2021-06-12",
			VoteAverage: 7.4,
			Genres:      []string{"Action", "Drama"},
		},
	}

	item.ApplyDisplayFields()

	if item.DisplayTitle != "Some Movie" {
		t.Errorf("expected enriched title, got %q", item.DisplayTitle)
	}
	if item.DisplayOverview != "A movie about things." {
		t.Errorf("expected enriched overview, got %q", item.DisplayOverview)
	}
	if item.DisplayYear != 2021 {
		t.Errorf("expected year 2021, got %d", item.DisplayYear)
	}
	if item.DisplayRating != 7.4 {
		t.Errorf("expected rating 7.4, got %v", item.DisplayRating)
	}
	if len(item.DisplayGenres) != 2 {
		t.Errorf("expected 2 genres, got %v", item.DisplayGenres)
	}
}

func TestApplyDisplayFields_EnrichmentMissingFields(t *testing.T) {
	// An enrichment block with empty title/overview must still produce
	// non-empty display fields.
	item := FeaturedItem{
		GUID:     "guid-3",
		Title:    "Obscure.Release.x264",
		TMDBInfo: &TMDBInfo{ID: 42},
	}

	item.ApplyDisplayFields()

	if item.DisplayTitle != "Obscure.Release.x264" {
		t.Errorf("expected raw title fallback, got %q", item.DisplayTitle)
	}
	if item.DisplayOverview != PlaceholderOverview {
		t.Errorf("expected placeholder overview, got %q", item.DisplayOverview)
	}
}

func TestAllItems(t *testing.T) {
	hero := FeaturedItem{GUID: "hero"}
	content := FeaturedContent{
		Hero: &hero,
		Categories: []FeaturedCategory{
			{ID: "a", Items: []FeaturedItem{{GUID: "a1"}, {GUID: "a2"}}},
			{ID: "b", Items: []FeaturedItem{{GUID: "b1"}}},
		},
	}

	items := content.AllItems()
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if items[0].GUID != "hero" {
		t.Errorf("expected hero first, got %q", items[0].GUID)
	}

	// Mutating through the returned pointers must reach the content.
	items[1].InLibrary = true
	if !content.Categories[0].Items[0].InLibrary {
		t.Error("expected AllItems to return pointers into the content")
	}
}

func TestAllItems_Empty(t *testing.T) {
	content := FeaturedContent{}
	if items := content.AllItems(); len(items) != 0 {
		t.Fatalf("expected no items, got %d", len(items))
	}
}
