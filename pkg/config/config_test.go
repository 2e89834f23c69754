package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, doc map[string]any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal config fixture: %v", err)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"logging": map[string]any{"level": "debug"},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("Expected normalized level DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Expected default port %d, got %d", DefaultPort, cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("Expected default shutdown timeout %v, got %v", DefaultShutdownTimeout, cfg.Server.ShutdownTimeout)
	}
	if cfg.Metadata.Type != "mongo" {
		t.Errorf("Expected default metadata type mongo, got %q", cfg.Metadata.Type)
	}
	if cfg.Sessions.TTL != 24*time.Hour {
		t.Errorf("Expected default session ttl 24h, got %v", cfg.Sessions.TTL)
	}
	if cfg.Blob.Type != "filesystem" {
		t.Errorf("Expected default blob type filesystem, got %q", cfg.Blob.Type)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error with missing config file, got: %v", err)
	}

	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("Expected default level %q, got %q", DefaultLogLevel, cfg.Logging.Level)
	}
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"server": map[string]any{
			"port":       8080,
			"rate_limit": 100,
			"rate_burst": 200,
		},
		"metadata": map[string]any{
			"type": "memory",
		},
		"sessions": map[string]any{
			"type": "memory",
			"ttl":  "1h",
		},
		"blob": map[string]any{
			"type": "filesystem",
			"filesystem": map[string]any{
				"path": "/var/lib/filevault",
			},
		},
	})

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.RateLimit != 100 {
		t.Errorf("Expected rate limit 100, got %d", cfg.Server.RateLimit)
	}
	if cfg.Sessions.TTL != time.Hour {
		t.Errorf("Expected ttl 1h, got %v", cfg.Sessions.TTL)
	}
	if got, _ := cfg.Blob.Filesystem["path"].(string); got != "/var/lib/filevault" {
		t.Errorf("Expected blob path override, got %q", got)
	}
}

func TestLoad_InvalidLevel(t *testing.T) {
	path := writeConfig(t, map[string]any{
		"logging": map[string]any{"level": "verbose"},
	})

	if _, err := Load(path); err == nil {
		t.Fatal("Expected validation error for invalid log level")
	}
}

func TestValidate_CustomRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name: "rate limit without burst",
			mutate: func(cfg *Config) {
				cfg.Server.RateLimit = 10
				cfg.Server.RateBurst = 0
			},
		},
		{
			name: "mongo without uri",
			mutate: func(cfg *Config) {
				cfg.Metadata.Mongo = map[string]any{"database": "filevault"}
			},
		},
		{
			name: "s3 without bucket",
			mutate: func(cfg *Config) {
				cfg.Blob.Type = "s3"
				cfg.Blob.S3 = map[string]any{"region": "us-east-1"}
			},
		},
		{
			name: "badger without path",
			mutate: func(cfg *Config) {
				cfg.Sessions.Badger = map[string]any{}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatalf("Failed to load defaults: %v", err)
			}

			tt.mutate(cfg)

			if err := Validate(cfg); err == nil {
				t.Fatal("Expected validation error")
			}
		})
	}
}

func TestFactories_MemoryBackends(t *testing.T) {
	ctx := context.Background()

	meta, err := CreateMetadataStore(ctx, &MetadataConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("Failed to create memory metadata store: %v", err)
	}
	if meta == nil {
		t.Fatal("Expected a metadata store")
	}

	sessions, err := CreateSessionStore(ctx, &SessionsConfig{Type: "memory", TTL: time.Hour})
	if err != nil {
		t.Fatalf("Failed to create memory session store: %v", err)
	}
	if sessions == nil {
		t.Fatal("Expected a session store")
	}

	blobs, err := CreateBlobStore(ctx, &BlobConfig{
		Type:       "filesystem",
		Filesystem: map[string]any{"path": t.TempDir()},
	})
	if err != nil {
		t.Fatalf("Failed to create filesystem blob store: %v", err)
	}
	if blobs == nil {
		t.Fatal("Expected a blob store")
	}

	t.Run("unknown types are rejected", func(t *testing.T) {
		if _, err := CreateMetadataStore(ctx, &MetadataConfig{Type: "etcd"}); err == nil {
			t.Error("Expected error for unknown metadata store type")
		}
		if _, err := CreateSessionStore(ctx, &SessionsConfig{Type: "redis"}); err == nil {
			t.Error("Expected error for unknown session store type")
		}
		if _, err := CreateBlobStore(ctx, &BlobConfig{Type: "gcs"}); err == nil {
			t.Error("Expected error for unknown blob store type")
		}
	})
}
