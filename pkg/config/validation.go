package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// validate is the singleton validator instance.
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate checks the configuration using struct tags plus the custom
// rules that tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules checks cross-field constraints.
func validateCustomRules(cfg *Config) error {
	if cfg.Server.RateLimit > 0 && cfg.Server.RateBurst == 0 {
		return fmt.Errorf("server: rate_burst must be set when rate_limit is enabled")
	}

	// A selected backend must carry its section; the reverse (an
	// unused section being present) is fine and simply ignored.
	if cfg.Metadata.Type == "mongo" {
		if uri, _ := cfg.Metadata.Mongo["uri"].(string); uri == "" {
			return fmt.Errorf("metadata.mongo: uri is required")
		}
		if db, _ := cfg.Metadata.Mongo["database"].(string); db == "" {
			return fmt.Errorf("metadata.mongo: database is required")
		}
	}

	if cfg.Sessions.Type == "badger" {
		if path, _ := cfg.Sessions.Badger["path"].(string); path == "" {
			return fmt.Errorf("sessions.badger: path is required")
		}
	}

	switch cfg.Blob.Type {
	case "filesystem":
		if path, _ := cfg.Blob.Filesystem["path"].(string); path == "" {
			return fmt.Errorf("blob.filesystem: path is required")
		}
	case "s3":
		if bucket, _ := cfg.Blob.S3["bucket"].(string); bucket == "" {
			return fmt.Errorf("blob.s3: bucket is required")
		}
		if region, _ := cfg.Blob.S3["region"].(string); region == "" {
			return fmt.Errorf("blob.s3: region is required")
		}
	}

	return nil
}

// formatValidationError renders validator errors with the offending
// field path, which beats the library's default namespace dump.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, fieldErr := range validationErrors {
		return fmt.Errorf("config validation failed on %s: %s rule violated (value: %v)",
			fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Value())
	}

	return err
}
