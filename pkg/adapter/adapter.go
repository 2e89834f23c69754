// Package adapter defines the protocol adapter contract managed by the
// FileVault server.
package adapter

import (
	"context"

	"filevault/pkg/registry"
)

// Adapter represents a protocol-specific server (HTTP today; the
// interface leaves room for others) whose lifecycle is managed by
// pkg/server. All adapters share the same store registry.
//
// Lifecycle:
//  1. Creation with protocol-specific configuration
//  2. SetRegistry() injects the shared stores
//  3. Serve() runs the server until the context is cancelled
//  4. Stop() performs graceful shutdown with the caller's timeout
//
// Thread safety: SetRegistry is called once before Serve; Stop may be
// called concurrently with Serve and must be idempotent.
type Adapter interface {
	// Serve starts the server and blocks until the context is
	// cancelled or an unrecoverable error occurs. On cancellation it
	// must shut down gracefully and return nil or ctx.Err().
	Serve(ctx context.Context) error

	// Stop initiates graceful shutdown, bounded by ctx.
	Stop(ctx context.Context) error

	// SetRegistry injects the shared store registry. Called exactly
	// once before Serve.
	SetRegistry(reg *registry.Registry)

	// Protocol returns the human-readable protocol name for logging.
	Protocol() string

	// Port returns the port the adapter listens on.
	Port() int
}
