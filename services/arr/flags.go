package arr

import (
	"context"
	"errors"
	"fmt"
	"log"

	"curatarr/models"
)

// LibraryFlags is the per-title library state surfaced on featured items.
type LibraryFlags struct {
	InLibrary   bool
	Downloading bool
}

// FlagService aggregates library state from Radarr and Sonarr. Either
// instance may be absent or down; lookups then just report nothing for
// that media type.
type FlagService struct {
	radarr *Client
	sonarr *Client
}

func NewFlagService(radarr, sonarr *Client) *FlagService {
	return &FlagService{radarr: radarr, sonarr: sonarr}
}

// flagKey keys the lookup map by media type and TMDb id.
func flagKey(mediaType models.MediaType, tmdbID int64) string {
	return fmt.Sprintf("%s:%d", mediaType, tmdbID)
}

// Flags returns the library state for every known title, keyed by media
// type and TMDb id. Instance failures degrade to missing entries, never
// errors.
func (s *FlagService) Flags(ctx context.Context) map[string]LibraryFlags {
	flags := make(map[string]LibraryFlags)
	s.collect(ctx, s.radarr, models.MediaTypeMovie, flags)
	s.collect(ctx, s.sonarr, models.MediaTypeTV, flags)
	return flags
}

func (s *FlagService) collect(ctx context.Context, client *Client, mediaType models.MediaType, flags map[string]LibraryFlags) {
	if client == nil || !client.IsConfigured() {
		return
	}

	items, err := client.Library(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotConfigured) {
			log.Printf("[arr] %s library lookup failed: %v", client.Kind(), err)
		}
		return
	}

	queued, err := client.QueuedIDs(ctx)
	if err != nil {
		log.Printf("[arr] %s queue lookup failed: %v", client.Kind(), err)
		queued = nil
	}

	for _, item := range items {
		if item.TMDBID == 0 {
			continue
		}
		flags[flagKey(mediaType, item.TMDBID)] = LibraryFlags{
			InLibrary:   item.HasFile,
			Downloading: queued[item.ID],
		}
	}
}

// Apply stamps library flags onto every enriched item in the content.
// Items without a TMDb match are left untouched.
func (s *FlagService) Apply(ctx context.Context, content *models.FeaturedContent) {
	if content == nil {
		return
	}
	flags := s.Flags(ctx)
	if len(flags) == 0 {
		return
	}
	for _, item := range content.AllItems() {
		if item.TMDBInfo == nil {
			continue
		}
		if f, ok := flags[flagKey(item.MediaType, item.TMDBInfo.ID)]; ok {
			item.InLibrary = f.InLibrary
			item.IsDownloading = f.Downloading
		}
	}
}
