package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"curatarr/models"
	"curatarr/services/featured"
)

type featuredService interface {
	Get(ctx context.Context) models.FeaturedContent
	Refresh(ctx context.Context) (models.FeaturedContent, models.RefreshSummary)
	ClearCache() error
	Status() models.CacheStatus
}

var _ featuredService = (*featured.Service)(nil)

type FeaturedHandler struct {
	Service featuredService
}

func NewFeaturedHandler(s featuredService) *FeaturedHandler {
	return &FeaturedHandler{Service: s}
}

// Get serves the featured snapshot. The service layer guarantees a
// response even when every upstream provider is down, so this endpoint
// never returns an error status.
func (h *FeaturedHandler) Get(w http.ResponseWriter, r *http.Request) {
	content := h.Service.Get(r.Context())

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(content)
}

// Refresh forces a full rebuild of the snapshot, bypassing cache
// validity, and reports the per-category outcome.
func (h *FeaturedHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	_, summary := h.Service.Refresh(r.Context())
	if !summary.Success {
		log.Printf("[featured] manual refresh failed: %s", summary.Error)
	}

	w.Header().Set("Content-Type", "application/json")
	if !summary.Success {
		w.WriteHeader(http.StatusBadGateway)
	}
	json.NewEncoder(w).Encode(summary)
}

// ClearCache drops the persisted snapshot.
func (h *FeaturedHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ClearCache(); err != nil {
		log.Printf("[featured] cache clear failed: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "cleared"})
}

// Status reports cache validity and remaining TTL without touching any
// upstream provider.
func (h *FeaturedHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := h.Service.Status()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
