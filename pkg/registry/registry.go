// Package registry bundles the store handles shared by every adapter.
//
// All handles are constructed once at startup by the config factories
// and injected here; no package reaches for ambient global clients.
package registry

import (
	"context"

	"filevault/internal/logger"
	"filevault/pkg/store/blob"
	"filevault/pkg/store/metadata"
	"filevault/pkg/store/session"
)

// Registry holds the explicit store handles for one server instance.
type Registry struct {
	metadata metadata.Store
	sessions session.Store
	blobs    blob.Store
}

// New creates a registry. All three handles are required; a nil handle
// is a wiring bug, not a runtime condition.
func New(meta metadata.Store, sessions session.Store, blobs blob.Store) *Registry {
	if meta == nil {
		panic("metadata store cannot be nil")
	}
	if sessions == nil {
		panic("session store cannot be nil")
	}
	if blobs == nil {
		panic("blob store cannot be nil")
	}

	return &Registry{
		metadata: meta,
		sessions: sessions,
		blobs:    blobs,
	}
}

// Metadata returns the metadata store handle.
func (r *Registry) Metadata() metadata.Store {
	return r.metadata
}

// Sessions returns the session store handle.
func (r *Registry) Sessions() session.Store {
	return r.sessions
}

// Blobs returns the blob store handle.
func (r *Registry) Blobs() blob.Store {
	return r.blobs
}

// Close releases every store. Errors are logged and the remaining
// stores are still closed; the first error is returned.
func (r *Registry) Close(ctx context.Context) error {
	var firstErr error

	if err := r.sessions.Close(ctx); err != nil {
		logger.Error("Failed to close session store: %v", err)
		firstErr = err
	}

	if err := r.metadata.Close(ctx); err != nil {
		logger.Error("Failed to close metadata store: %v", err)
		if firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
