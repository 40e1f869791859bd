package prowlarr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"curatarr/models"
)

func TestSearch_SendsCategoryAndKey(t *testing.T) {
	var gotPath, gotKey, gotCategories, gotLimit string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		gotCategories = r.URL.Query().Get("categories")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"guid":"abc","indexerId":3,"title":"Some.Movie.2021","size":1073741824,"protocol":"torrent"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "testkey", server.Client())
	releases, err := client.Search(context.Background(), SearchRequest{
		Query:     "some movie",
		MediaType: models.MediaTypeMovie,
		Limit:     10,
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotPath != "/api/v1/search" {
		t.Errorf("expected /api/v1/search, got %q", gotPath)
	}
	if gotKey != "testkey" {
		t.Errorf("expected api key header, got %q", gotKey)
	}
	if gotCategories != "2000" {
		t.Errorf("expected movie category 2000, got %q", gotCategories)
	}
	if gotLimit != "10" {
		t.Errorf("expected limit 10, got %q", gotLimit)
	}

	if len(releases) != 1 {
		t.Fatalf("expected 1 release, got %d", len(releases))
	}
	if releases[0].GUID != "abc" || releases[0].IndexerID != 3 {
		t.Errorf("unexpected release: %+v", releases[0])
	}
}

func TestSearch_TVCategory(t *testing.T) {
	var gotCategories string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCategories = r.URL.Query().Get("categories")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "testkey", server.Client())
	if _, err := client.Search(context.Background(), SearchRequest{MediaType: models.MediaTypeTV}); err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if gotCategories != "5000" {
		t.Errorf("expected tv category 5000, got %q", gotCategories)
	}
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"guid":"a"},{"guid":"b"},{"guid":"c"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "testkey", server.Client())
	releases, err := client.Search(context.Background(), SearchRequest{Limit: 2})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("expected 2 releases after truncation, got %d", len(releases))
	}
}

func TestSearch_NotConfigured(t *testing.T) {
	client := NewClient("", "", nil)
	if client.IsConfigured() {
		t.Fatal("expected unconfigured client")
	}
	_, err := client.Search(context.Background(), SearchRequest{Query: "x"})
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSearch_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "testkey", server.Client())
	if _, err := client.Search(context.Background(), SearchRequest{Query: "x"}); err == nil {
		t.Fatal("expected error for 500 response")
	}
}
