// Package main - entry point for the dive pricing service
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dive-pricing/adapters/storage"
	"dive-pricing/api"
	"dive-pricing/core/engine"
	"dive-pricing/core/pricing"
	"dive-pricing/internal/config"
	"dive-pricing/internal/logging"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "listen address (overrides config)")
	dataPath := flag.String("data", "", "reference data file (overrides config)")
	flag.Parse()

	cfg := config.Get()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(loaded)
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}
	if *dataPath != "" {
		cfg.Pricing.DataPath = *dataPath
	}

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()
	log := logging.Logger

	store := loadStore(cfg, log)
	backend := buildBackend(cfg, store, log)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      api.NewServer(backend, version, log),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	go func() {
		log.Info("dive pricing service listening",
			zap.String("address", cfg.Server.Address),
			zap.String("backend", backend.Name()),
			zap.String("version", version),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("shutdown failed", zap.Error(err))
	}
}

// loadStore reads the reference-data fixture named in the config. A
// missing file is not fatal: the service starts with an empty store and
// every agreement-backed calculation reports its own missing-data error.
func loadStore(cfg *config.Config, log *zap.Logger) *pricing.MemoryStore {
	path := cfg.Pricing.DataPath
	if path == "" {
		return pricing.NewMemoryStore()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Warn("reference data file not found, starting empty", zap.String("path", path))
		return pricing.NewMemoryStore()
	}

	store, err := storage.NewLoader().Load(path)
	if err != nil {
		log.Fatal("loading reference data", zap.String("path", path), zap.Error(err))
	}
	log.Info("reference data loaded", zap.String("path", path))
	return store
}

// buildBackend wires the delegation chain the config asks for: a plain
// local backend, or a remote client fronted by the engine with the
// local implementation as fallback when enabled.
func buildBackend(cfg *config.Config, store *pricing.MemoryStore, log *zap.Logger) engine.Backend {
	local := engine.NewLocal(store)
	if cfg.Engine.Backend != "remote" || cfg.Engine.RemoteURL == "" {
		return engine.New(local, nil, log)
	}

	remote := api.NewClient(cfg.Engine.RemoteURL, cfg.Engine.Timeout())
	var fallback engine.Backend
	if cfg.Engine.FallbackEnabled {
		fallback = local
	}
	return engine.New(remote, fallback, log)
}
