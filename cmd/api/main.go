// ABOUTME: Main entry point for the Page Reader API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagereader-api/api"
	"pagereader-api/api/handlers"
	"pagereader-api/api/middleware"
	coreconfig "pagereader-api/core/config"
	"pagereader-api/core/interfaces"
	"pagereader-api/core/reader"
	"pagereader-api/core/store"
	"pagereader-api/infrastructure/cache/memory"
	"pagereader-api/infrastructure/cache/redis"
	"pagereader-api/infrastructure/cache/sqlite"
	"pagereader-api/infrastructure/extraction/readability"
	"pagereader-api/infrastructure/fetch/colly"
	"pagereader-api/infrastructure/http/standard"
	"pagereader-api/infrastructure/logger/structured"
	"pagereader-api/infrastructure/surface/browser"
	"pagereader-api/pkg/config"
	"pagereader-api/pkg/featureflags"
)

const fetchTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := structured.New(structured.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	logger.Info("Starting Page Reader API", map[string]interface{}{
		"port":        cfg.Server.Port,
		"cache_type":  cfg.Cache.Type,
		"local_cache": cfg.Cache.LocalBackend(),
	})

	flags := featureflags.NewEnvManager("")

	var closers []io.Closer
	synced := newCache(cfg.Cache.Type, cfg.Cache, logger, &closers)
	local := synced
	if cfg.Cache.LocalBackend() != cfg.Cache.Type {
		local = newCache(cfg.Cache.LocalBackend(), cfg.Cache, logger, &closers)
	}
	settingsStore := store.New(synced, local, logger)

	fetcher := colly.NewFetcher(fetchTimeout, logger)
	fetcher.SetTransport(&middleware.LoggingRoundTripper{
		Transport: standard.NewRetryTransport(nil, 3),
		Logger:    logger,
	})

	pipeline := reader.NewPipeline(coreconfig.DefaultHeuristics(), interfaces.Dependencies{
		Cache:     synced,
		Extractor: readability.NewExtractor(),
		Fetcher:   fetcher,
		Logger:    logger,
	})

	browsers := browser.NewManager(browser.Config{
		ControlURL: cfg.Browser.ControlURL,
		Launch:     cfg.Browser.Launch,
		Width:      cfg.Browser.Width,
		Height:     cfg.Browser.Height,
		DPR:        cfg.Browser.DPR,
		Logger:     logger,
	})
	if browsers.Enabled() {
		startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := browsers.Start(startCtx); err != nil {
			logger.Error("Browser unavailable, sessions disabled", map[string]interface{}{
				"error": err.Error(),
			})
		}
		cancel()
	}
	sessions := reader.NewManager(cfg.Browser.MaxSessions)

	// Create API with middleware
	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:           logger,
		RateLimitEnabled: flags.IsEnabled(context.Background(), featureflags.RateLimitEnabled),
		RateLimit:        cfg.Server.RateLimit,
		RateBurst:        cfg.Server.RateBurst,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
	})

	// Create and register handlers
	handlers.NewReaderHandler(pipeline, fetcher, flags, logger).RegisterRoutes(humaAPI)
	handlers.NewSessionHandler(handlers.SessionConfig{
		Opener:   tabOpener{browsers},
		Sessions: sessions,
		Pipeline: pipeline,
		Store:    settingsStore,
		Flags:    flags,
		Layout:   coreconfig.DefaultLayout(),
		Logger:   logger,
	}).RegisterRoutes(humaAPI)

	errorLog := logger.Writer()
	defer errorLog.Close()

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     log.New(errorLog, "", 0),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := sessions.CloseAll(ctx); err != nil {
		logger.Warn("Sessions closed with errors", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if err := browsers.Close(); err != nil {
		logger.Warn("Failed to close browser", map[string]interface{}{
			"error": err.Error(),
		})
	}
	for _, c := range closers {
		c.Close()
	}

	logger.Info("Server stopped", nil)
}

// newCache builds one cache backend. Redis and SQLite failures fall back to memory.
func newCache(kind string, cfg config.CacheConfig, logger interfaces.Logger, closers *[]io.Closer) interfaces.Cache {
	switch kind {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			break
		}
		*closers = append(*closers, redisCache)
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Redis.Address,
		})
		return redisCache
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.SQLite.Path, logger)
		if err != nil {
			logger.Error("Failed to open SQLite cache, falling back to memory", map[string]interface{}{
				"path":  cfg.SQLite.Path,
				"error": err.Error(),
			})
			break
		}
		*closers = append(*closers, sqliteCache)
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.SQLite.Path,
		})
		return sqliteCache
	}

	logger.Info("Using memory cache", nil)
	return memory.NewMemoryCache(cfg.Memory.CleanupInterval)
}

// tabOpener adapts the browser manager to the session handler
type tabOpener struct {
	browsers *browser.Manager
}

func (o tabOpener) Available() bool {
	return o.browsers.Available()
}

func (o tabOpener) Open(ctx context.Context, pageURL string, width, height int) (handlers.Tab, error) {
	tab, err := o.browsers.Open(ctx, pageURL, width, height)
	if err != nil {
		return nil, err
	}
	return tab, nil
}

func init() {
	// Print banner
	fmt.Println(`
  ___               ___             _
 | _ \__ _ __ _ ___| _ \___ __ _ __| |___ _ _
 |  _/ _' / _' / -_)   / -_) _' / _' / -_) '_|
 |_| \__,_\__, \___|_|_\___\__,_\__,_\___|_|
          |___/
	`)
}
