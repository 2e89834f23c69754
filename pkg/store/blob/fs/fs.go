// Package fs implements blob storage on a local content root.
//
// Each payload is written to a fresh uuid-named file directly under
// the root. The returned location is the absolute path, which is what
// the metadata record stores.
package fs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"filevault/pkg/store/blob"
)

// FSBlobStore implements blob.Store using the local filesystem.
//
// Thread safety: safe for concurrent use. Every write targets a fresh
// uuid name, so writers never touch the same path.
type FSBlobStore struct {
	root string
}

// Config contains the settings for the filesystem blob store.
type Config struct {
	// Path is the content root directory.
	Path string `mapstructure:"path"`
}

// NewFSBlobStore creates the store and ensures the content root
// exists.
func NewFSBlobStore(ctx context.Context, cfg Config) (*FSBlobStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content root: %w", err)
	}

	return &FSBlobStore{root: cfg.Path}, nil
}

func (s *FSBlobStore) Store(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The root may have been removed out from under a long-running
	// process, so every write re-ensures it.
	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("failed to ensure content root: %w", err)
	}

	location := filepath.Join(s.root, uuid.NewString())
	if err := os.WriteFile(location, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	return location, nil
}

func (s *FSBlobStore) Retrieve(ctx context.Context, location, variant string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := blob.VariantLocation(location, variant)

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, blob.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}

	return f, nil
}

func (s *FSBlobStore) Remove(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(location)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove blob: %w", err)
	}

	return nil
}
