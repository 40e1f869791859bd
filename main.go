package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"curatarr/api"
	"curatarr/config"
	"curatarr/handlers"
	"curatarr/internal/database"
	"curatarr/services/arr"
	"curatarr/services/featured"
	"curatarr/services/prowlarr"
	"curatarr/services/scheduler"
	"curatarr/services/tmdb"
	"curatarr/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	settings := setupLoggingAndSettings()

	db, err := database.NewDB(database.Config{DatabasePath: settings.Database.Path})
	if err != nil {
		log.Fatalf("[main] open database: %v", err)
	}
	defer db.Close()

	featuredRepo := database.NewFeaturedRepository(db.Connection())
	categoryRepo := database.NewCategoryRepository(db.Connection())
	if err := categoryRepo.SeedDefaults(); err != nil {
		log.Fatalf("[main] seed categories: %v", err)
	}

	prowlarrClient := prowlarr.NewClient(settings.Prowlarr.URL, settings.Prowlarr.APIKey, nil)
	tmdbClient := tmdb.NewClient(settings.TMDB.APIKey, settings.TMDB.Language, nil)
	radarrClient := arr.NewClient(arr.KindRadarr, settings.Radarr.URL, settings.Radarr.APIKey, nil)
	sonarrClient := arr.NewClient(arr.KindSonarr, settings.Sonarr.URL, settings.Sonarr.APIKey, nil)

	cacheStore := featured.NewCacheStore(featuredRepo, settings.Cache.TTLSeconds)
	fetcher := featured.NewFetcher(prowlarrClient, categoryRepo)
	enricher := featured.NewEnricher(tmdbClient)
	flagService := arr.NewFlagService(radarrClient, sonarrClient)
	featuredService := featured.NewService(cacheStore, fetcher, enricher, flagService, settings.DemoMode)

	var trigger scheduler.Trigger
	refresh := func(ctx context.Context) {
		_, summary := featuredService.Refresh(ctx)
		if !summary.Success {
			log.Printf("[main] scheduled refresh failed: %s", summary.Error)
		}
	}
	if settings.Cache.RefreshIntervalMinutes > 0 {
		trigger = scheduler.New(time.Duration(settings.Cache.RefreshIntervalMinutes)*time.Minute, refresh)
	} else {
		log.Printf("[main] periodic refresh disabled, manual trigger only")
		trigger = scheduler.NewManualTrigger(refresh)
	}
	trigger.Start()
	defer trigger.Stop()

	cfgManager := config.NewManager(settingsPath())

	router := utils.NewRouter()
	featuredHandler := handlers.NewFeaturedHandler(featuredService)
	libraryHandler := handlers.NewLibraryHandler(radarrClient, sonarrClient, cfgManager)
	versionHandler := handlers.NewVersionHandler()

	// Manual refreshes fan out to every upstream provider, so they get a
	// per-IP budget of 5 per minute.
	refreshLimiter := api.NewIPRateLimiter(rate.Every(12*time.Second), 5)

	router.HandleFunc("/api/featured", featuredHandler.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/featured/refresh",
		api.RateLimitHandlerFunc(refreshLimiter, featuredHandler.Refresh)).Methods(http.MethodPost)
	router.HandleFunc("/api/featured/cache/clear", featuredHandler.ClearCache).Methods(http.MethodPost)
	router.HandleFunc("/api/featured/status", featuredHandler.Status).Methods(http.MethodGet)
	router.HandleFunc("/api/library/movie", libraryHandler.AddMovie).Methods(http.MethodPost)
	router.HandleFunc("/api/library/series", libraryHandler.AddSeries).Methods(http.MethodPost)
	router.HandleFunc("/api/version", versionHandler.GetVersion).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", settings.Server.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("[main] curatarr %s listening on %s", handlers.ServiceVersion(), server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Printf("[main] shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[main] shutdown: %v", err)
	}
}

// setupLoggingAndSettings loads the settings file and routes log output
// through a rotating file alongside stderr.
func setupLoggingAndSettings() config.Settings {
	cfgManager := config.NewManager(settingsPath())
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("[main] load settings: %v", err)
	}

	logDir := filepath.Join(filepath.Dir(settings.Database.Path), "logs")
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "curatarr.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))

	return settings
}

func settingsPath() string {
	if v := os.Getenv("CURATARR_SETTINGS_PATH"); v != "" {
		return v
	}
	return "data/settings.json"
}
