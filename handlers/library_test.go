package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curatarr/config"
	"curatarr/services/arr"
)

type fakeMovieAdder struct {
	configured bool
	err        error
	got        *arr.AddMovieRequest
}

func (f *fakeMovieAdder) IsConfigured() bool { return f.configured }

func (f *fakeMovieAdder) AddMovie(_ context.Context, req arr.AddMovieRequest) error {
	f.got = &req
	return f.err
}

type fakeSeriesAdder struct {
	configured bool
	err        error
	got        *arr.AddSeriesRequest
}

func (f *fakeSeriesAdder) IsConfigured() bool { return f.configured }

func (f *fakeSeriesAdder) AddSeries(_ context.Context, req arr.AddSeriesRequest) error {
	f.got = &req
	return f.err
}

func testCfgManager(t *testing.T) *config.Manager {
	t.Helper()
	mgr := config.NewManager(filepath.Join(t.TempDir(), "settings.json"))
	settings := config.DefaultSettings()
	settings.Radarr.QualityProfileID = 4
	settings.Radarr.RootFolder = "/movies"
	settings.Sonarr.QualityProfileID = 6
	settings.Sonarr.RootFolder = "/tv"
	require.NoError(t, mgr.Save(settings))
	return mgr
}

func postJSON(t *testing.T, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, "/api/library/movie", bytes.NewReader(raw))
}

func TestLibraryAddMovie(t *testing.T) {
	radarr := &fakeMovieAdder{configured: true}
	h := NewLibraryHandler(radarr, &fakeSeriesAdder{}, testCfgManager(t))

	rec := httptest.NewRecorder()
	h.AddMovie(rec, postJSON(t, AddMovieRequest{TMDBID: 603, Title: "The Matrix"}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, radarr.got)
	assert.Equal(t, int64(603), radarr.got.TMDBID)
	assert.Equal(t, "The Matrix", radarr.got.Title)
	// Quality profile and root folder come from settings, not the request.
	assert.Equal(t, 4, radarr.got.QualityProfileID)
	assert.Equal(t, "/movies", radarr.got.RootFolderPath)
	assert.True(t, radarr.got.Monitored)
}

func TestLibraryAddMovieValidation(t *testing.T) {
	h := NewLibraryHandler(&fakeMovieAdder{configured: true}, &fakeSeriesAdder{}, testCfgManager(t))

	rec := httptest.NewRecorder()
	h.AddMovie(rec, postJSON(t, AddMovieRequest{Title: "No ID"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.AddMovie(rec, postJSON(t, AddMovieRequest{TMDBID: 603}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLibraryAddMovieUnconfigured(t *testing.T) {
	h := NewLibraryHandler(&fakeMovieAdder{configured: false}, &fakeSeriesAdder{}, testCfgManager(t))

	rec := httptest.NewRecorder()
	h.AddMovie(rec, postJSON(t, AddMovieRequest{TMDBID: 603, Title: "The Matrix"}))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLibraryAddMovieUpstreamError(t *testing.T) {
	radarr := &fakeMovieAdder{configured: true, err: errors.New("radarr 500")}
	h := NewLibraryHandler(radarr, &fakeSeriesAdder{}, testCfgManager(t))

	rec := httptest.NewRecorder()
	h.AddMovie(rec, postJSON(t, AddMovieRequest{TMDBID: 603, Title: "The Matrix"}))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestLibraryAddSeries(t *testing.T) {
	sonarr := &fakeSeriesAdder{configured: true}
	h := NewLibraryHandler(&fakeMovieAdder{}, sonarr, testCfgManager(t))

	rec := httptest.NewRecorder()
	h.AddSeries(rec, postJSON(t, AddSeriesRequest{TVDBID: 121361, Title: "Some Show"}))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, sonarr.got)
	assert.Equal(t, int64(121361), sonarr.got.TVDBID)
	assert.Equal(t, 6, sonarr.got.QualityProfileID)
	assert.Equal(t, "/tv", sonarr.got.RootFolderPath)
}

func TestLibraryAddSeriesInvalidBody(t *testing.T) {
	h := NewLibraryHandler(&fakeMovieAdder{}, &fakeSeriesAdder{configured: true}, testCfgManager(t))

	req := httptest.NewRequest(http.MethodPost, "/api/library/series", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.AddSeries(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
