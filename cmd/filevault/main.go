package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filevault/internal/logger"
	httpadapter "filevault/pkg/adapter/http"
	"filevault/pkg/config"
	"filevault/pkg/registry"
	"filevault/pkg/server"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	logLevel := flag.String("log-level", "", "Override the configured log level (DEBUG, INFO, WARN, ERROR)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger.SetLevel(cfg.Logging.Level)

	fmt.Println("FileVault - file storage backend")
	logger.Info("Log level set to: %s", cfg.Logging.Level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reg, err := buildRegistry(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize stores: %v", err)
	}
	defer closeRegistry(reg)

	srv := server.New(reg)
	if err := srv.AddAdapter(httpadapter.New(httpadapter.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
	})); err != nil {
		log.Fatalf("Failed to register HTTP adapter: %v", err)
	}

	logger.Info("Server is running on port %d. Press Ctrl+C to stop.", cfg.Server.Port)

	if err := srv.Serve(ctx); err != nil && err != context.Canceled {
		logger.Error("Server error: %v", err)
		closeRegistry(reg)
		os.Exit(1) // skips deferred cleanup, so close explicitly above
	}
}

// buildRegistry materializes the configured store backends.
func buildRegistry(ctx context.Context, cfg *config.Config) (*registry.Registry, error) {
	meta, err := config.CreateMetadataStore(ctx, &cfg.Metadata)
	if err != nil {
		return nil, fmt.Errorf("metadata store: %w", err)
	}
	logger.Info("Metadata store: %s", cfg.Metadata.Type)

	sessions, err := config.CreateSessionStore(ctx, &cfg.Sessions)
	if err != nil {
		if closeErr := meta.Close(ctx); closeErr != nil {
			logger.Error("Failed to close metadata store: %v", closeErr)
		}
		return nil, fmt.Errorf("session store: %w", err)
	}
	logger.Info("Session store: %s (TTL %v)", cfg.Sessions.Type, cfg.Sessions.TTL)

	blobs, err := config.CreateBlobStore(ctx, &cfg.Blob)
	if err != nil {
		if closeErr := sessions.Close(ctx); closeErr != nil {
			logger.Error("Failed to close session store: %v", closeErr)
		}
		if closeErr := meta.Close(ctx); closeErr != nil {
			logger.Error("Failed to close metadata store: %v", closeErr)
		}
		return nil, fmt.Errorf("blob store: %w", err)
	}
	logger.Info("Blob store: %s", cfg.Blob.Type)

	return registry.New(meta, sessions, blobs), nil
}

// closeRegistry releases the stores with a fresh timeout: the serve
// context is already cancelled by the time shutdown runs.
func closeRegistry(reg *registry.Registry) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := reg.Close(ctx); err != nil {
		logger.Error("Error closing stores: %v", err)
	}
}
