package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

const defaultCacheTTLSeconds = 3600

// Settings is the full on-disk configuration for the service.
type Settings struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Cache    CacheConfig    `json:"cache"`
	Prowlarr ProwlarrConfig `json:"prowlarr"`
	TMDB     TMDBConfig     `json:"tmdb"`
	Radarr   ArrConfig      `json:"radarr"`
	Sonarr   ArrConfig      `json:"sonarr"`
	DemoMode bool           `json:"demoMode"`
}

type ServerConfig struct {
	Port int `json:"port"`
}

type DatabaseConfig struct {
	Path string `json:"path"`
}

type CacheConfig struct {
	// TTLSeconds controls how long a featured snapshot stays valid.
	TTLSeconds int `json:"ttlSeconds"`
	// RefreshIntervalMinutes controls the scheduled refresh cadence.
	RefreshIntervalMinutes int `json:"refreshIntervalMinutes"`
}

type ProwlarrConfig struct {
	URL    string `json:"url"`
	APIKey string `json:"apiKey"`
}

type TMDBConfig struct {
	APIKey   string `json:"apiKey"`
	Language string `json:"language"`
}

// ArrConfig covers both Radarr and Sonarr instances.
type ArrConfig struct {
	URL              string `json:"url"`
	APIKey           string `json:"apiKey"`
	QualityProfileID int    `json:"qualityProfileId"`
	RootFolder       string `json:"rootFolder"`
}

// DefaultSettings returns the baseline configuration with environment
// overrides applied. Missing credentials are left empty; the services that
// need them degrade instead of failing at startup.
func DefaultSettings() Settings {
	s := Settings{
		Server:   ServerConfig{Port: 8484},
		Database: DatabaseConfig{Path: "data/curatarr.db"},
		Cache: CacheConfig{
			TTLSeconds:             defaultCacheTTLSeconds,
			RefreshIntervalMinutes: 60,
		},
		TMDB: TMDBConfig{Language: "en-US"},
	}
	s.applyEnv()
	return s
}

func (s *Settings) applyEnv() {
	if v := os.Getenv("CURATARR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			s.Server.Port = port
		}
	}
	if v := os.Getenv("CURATARR_DATABASE_PATH"); v != "" {
		s.Database.Path = v
	}
	if v := os.Getenv("CURATARR_CACHE_TTL_SECONDS"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			s.Cache.TTLSeconds = ttl
		}
	}
	if v := os.Getenv("PROWLARR_URL"); v != "" {
		s.Prowlarr.URL = v
	}
	if v := os.Getenv("PROWLARR_API_KEY"); v != "" {
		s.Prowlarr.APIKey = v
	}
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		s.TMDB.APIKey = v
	}
	if v := os.Getenv("RADARR_URL"); v != "" {
		s.Radarr.URL = v
	}
	if v := os.Getenv("RADARR_API_KEY"); v != "" {
		s.Radarr.APIKey = v
	}
	if v := os.Getenv("SONARR_URL"); v != "" {
		s.Sonarr.URL = v
	}
	if v := os.Getenv("SONARR_API_KEY"); v != "" {
		s.Sonarr.APIKey = v
	}
	if v := os.Getenv("CURATARR_DEMO_MODE"); v != "" {
		s.DemoMode = strings.EqualFold(v, "true") || v == "1"
	}
}

// Manager loads and saves the settings file. Reads always come from disk so
// out-of-band edits are picked up on the next Load.
type Manager struct {
	mu   sync.Mutex
	path string
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads settings from disk. A missing file yields DefaultSettings and
// is not an error; the file is created on the first Save.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parse settings: %w", err)
	}
	// Environment always wins over the file.
	settings.applyEnv()
	return settings, nil
}

// Save writes settings atomically (write to temp file, then rename).
func (m *Manager) Save(settings Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename settings: %w", err)
	}
	return nil
}
