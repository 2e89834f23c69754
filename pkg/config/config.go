// Package config loads, validates, and materializes the FileVault
// configuration.
//
// Configuration sources (in order of precedence):
//  1. Environment variables (FILEVAULT_*)
//  2. Configuration file (YAML)
//  3. Default values
//
// Store configuration pattern: each store backend defines its own
// config type, and the Config struct carries type-specific sections as
// untyped maps. Only the section matching the selected type is decoded
// (with mapstructure) and handed to the backend's constructor; see
// factories.go.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete FileVault configuration.
type Config struct {
	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains the HTTP server settings.
	Server ServerConfig `mapstructure:"server"`

	// Metadata selects and configures the metadata store backend.
	Metadata MetadataConfig `mapstructure:"metadata"`

	// Sessions selects and configures the session store backend.
	Sessions SessionsConfig `mapstructure:"sessions"`

	// Blob selects and configures the blob store backend.
	Blob BlobConfig `mapstructure:"blob"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive).
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`
}

// ServerConfig contains the HTTP server settings.
type ServerConfig struct {
	// Host is the listen address.
	Host string `mapstructure:"host" validate:"required"`

	// Port is the listen port.
	Port int `mapstructure:"port" validate:"required,gt=0,lte=65535"`

	// ReadTimeout bounds how long reading one request may take.
	ReadTimeout time.Duration `mapstructure:"read_timeout" validate:"gt=0"`

	// WriteTimeout bounds how long writing one response may take.
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`

	// ShutdownTimeout is the maximum wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`

	// RateLimit is the sustained requests-per-second budget across all
	// clients. 0 disables rate limiting.
	RateLimit uint `mapstructure:"rate_limit"`

	// RateBurst is the burst capacity when rate limiting is enabled.
	RateBurst uint `mapstructure:"rate_burst"`
}

// MetadataConfig selects the metadata store backend.
//
// Only the section matching Type is used.
type MetadataConfig struct {
	// Type specifies which backend to use.
	// Valid values: mongo, memory.
	Type string `mapstructure:"type" validate:"required,oneof=mongo memory"`

	// Mongo contains mongo-specific configuration.
	Mongo map[string]any `mapstructure:"mongo"`
}

// SessionsConfig selects the session store backend.
type SessionsConfig struct {
	// Type specifies which backend to use.
	// Valid values: badger, memory.
	Type string `mapstructure:"type" validate:"required,oneof=badger memory"`

	// TTL is the fixed session lifetime. Sessions never renew.
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`

	// Badger contains badger-specific configuration.
	Badger map[string]any `mapstructure:"badger"`
}

// BlobConfig selects the blob store backend.
type BlobConfig struct {
	// Type specifies which backend to use.
	// Valid values: filesystem, s3.
	Type string `mapstructure:"type" validate:"required,oneof=filesystem s3"`

	// Filesystem contains filesystem-specific configuration.
	Filesystem map[string]any `mapstructure:"filesystem"`

	// S3 contains S3-specific configuration.
	S3 map[string]any `mapstructure:"s3"`
}

// Load reads the configuration from path (when the file exists),
// applies environment overrides and defaults, and validates the
// result. A missing config file is not an error: defaults plus
// environment carry a complete configuration.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("FILEVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	applyDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalize cleans up values that validation accepts in several
// spellings.
func normalize(cfg *Config) {
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	cfg.Metadata.Type = strings.ToLower(cfg.Metadata.Type)
	cfg.Sessions.Type = strings.ToLower(cfg.Sessions.Type)
	cfg.Blob.Type = strings.ToLower(cfg.Blob.Type)
}
