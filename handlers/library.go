package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"curatarr/config"
	"curatarr/services/arr"
)

type movieAdder interface {
	IsConfigured() bool
	AddMovie(ctx context.Context, req arr.AddMovieRequest) error
}

type seriesAdder interface {
	IsConfigured() bool
	AddSeries(ctx context.Context, req arr.AddSeriesRequest) error
}

var (
	_ movieAdder  = (*arr.Client)(nil)
	_ seriesAdder = (*arr.Client)(nil)
)

// LibraryHandler pushes featured items into Radarr or Sonarr so they get
// grabbed and managed like anything else in the library.
type LibraryHandler struct {
	Radarr     movieAdder
	Sonarr     seriesAdder
	CfgManager *config.Manager
}

func NewLibraryHandler(radarr movieAdder, sonarr seriesAdder, cfgManager *config.Manager) *LibraryHandler {
	return &LibraryHandler{Radarr: radarr, Sonarr: sonarr, CfgManager: cfgManager}
}

// AddMovieRequest is the request body for pushing a movie to Radarr.
type AddMovieRequest struct {
	TMDBID int64  `json:"tmdbId"`
	Title  string `json:"title"`
}

// AddSeriesRequest is the request body for pushing a series to Sonarr.
type AddSeriesRequest struct {
	TVDBID int64  `json:"tvdbId"`
	Title  string `json:"title"`
}

func (h *LibraryHandler) AddMovie(w http.ResponseWriter, r *http.Request) {
	var req AddMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.TMDBID <= 0 {
		writeJSONError(w, http.StatusBadRequest, "title and tmdbId are required")
		return
	}
	if h.Radarr == nil || !h.Radarr.IsConfigured() {
		writeJSONError(w, http.StatusServiceUnavailable, "radarr is not configured")
		return
	}

	settings, err := h.CfgManager.Load()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	addReq := arr.AddMovieRequest{
		TMDBID:           req.TMDBID,
		Title:            req.Title,
		QualityProfileID: settings.Radarr.QualityProfileID,
		RootFolderPath:   settings.Radarr.RootFolder,
		Monitored:        true,
	}
	if err := h.Radarr.AddMovie(r.Context(), addReq); err != nil {
		log.Printf("[library] add movie %q failed: %v", req.Title, err)
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}

	log.Printf("[library] queued movie %q tmdbId=%d", req.Title, req.TMDBID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "added"})
}

func (h *LibraryHandler) AddSeries(w http.ResponseWriter, r *http.Request) {
	var req AddSeriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || req.TVDBID <= 0 {
		writeJSONError(w, http.StatusBadRequest, "title and tvdbId are required")
		return
	}
	if h.Sonarr == nil || !h.Sonarr.IsConfigured() {
		writeJSONError(w, http.StatusServiceUnavailable, "sonarr is not configured")
		return
	}

	settings, err := h.CfgManager.Load()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	addReq := arr.AddSeriesRequest{
		TVDBID:           req.TVDBID,
		Title:            req.Title,
		QualityProfileID: settings.Sonarr.QualityProfileID,
		RootFolderPath:   settings.Sonarr.RootFolder,
		Monitored:        true,
	}
	if err := h.Sonarr.AddSeries(r.Context(), addReq); err != nil {
		log.Printf("[library] add series %q failed: %v", req.Title, err)
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}

	log.Printf("[library] queued series %q tvdbId=%d", req.Title, req.TVDBID)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "added"})
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
