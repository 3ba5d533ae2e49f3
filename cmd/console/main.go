/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the inventory console gateway. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load and validate configuration
  3. Build the zap logger
  4. Open the preference store (memory, sqlite, or redis per config)
  5. Wire client, caches, handler, router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Path to the YAML config file. Omit to run on defaults.
  -addr    Listen address override (default from config)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the preference store
  4. Exit

EXAMPLES:
  # Run on defaults against a local backend
  ./console

  # Run with a config file
  ./console -config=./config/console.yaml

  # Override the listen address
  ./console -config=./config/console.yaml -addr=:3000

SEE ALSO:
  - config/config.go: Configuration sections and defaults
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
*/
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/inventory-console/api"
	"github.com/warp/inventory-console/apiclient"
	"github.com/warp/inventory-console/config"
	"github.com/warp/inventory-console/derive"
	"github.com/warp/inventory-console/fetch"
	"github.com/warp/inventory-console/kv"
	"github.com/warp/inventory-console/logger"
	redisstore "github.com/warp/inventory-console/store/redis"
	"github.com/warp/inventory-console/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "", "path to YAML config file (defaults apply when omitted)")
	addr := flag.String("addr", "", "listen address override")
	flag.Parse()

	// Load configuration
	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Config validation failed: %v", err)
	}

	// Logger
	zlog, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zlog.Sync()

	// Preference store
	prefs, err := openPreferenceStore(cfg)
	if err != nil {
		log.Fatalf("Failed to open preference store: %v", err)
	}
	defer prefs.Close()

	// Upstream client + caches
	client := apiclient.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	snapshots := fetch.New[derive.Snapshot](cfg.Cache.Fresh, cfg.Cache.MaxAge, zlog)
	skus := fetch.New[[]apiclient.SKU](cfg.Cache.Fresh, cfg.Cache.MaxAge, zlog)

	// Handler + router
	handler := api.NewHandler(client, snapshots, skus, prefs, api.NewMetrics(), zlog)
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		zlog.Info("console starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("upstream", cfg.Upstream.BaseURL),
			zap.String("preferences_backend", cfg.Preferences.Backend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	zlog.Info("stopped")
}

// openPreferenceStore builds the kv.Store selected by the config.
func openPreferenceStore(cfg *config.Config) (kv.Store, error) {
	switch cfg.Preferences.Backend {
	case config.BackendSQLite:
		return sqlite.New(cfg.Preferences.SQLitePath)
	case config.BackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return redisstore.New(ctx, redisstore.Options{
			Addr:     cfg.Preferences.Redis.Addr,
			Password: cfg.Preferences.Redis.Password,
			DB:       cfg.Preferences.Redis.DB,
		})
	default:
		return kv.NewMemory(), nil
	}
}
