// Package session defines the bearer-token session contract.
//
// A session is a stateless credential decoupled from the password:
// an opaque token mapped to exactly one user id, expiring on a fixed
// TTL with no sliding renewal. Expiry is enforced by the backing
// key-value store itself, so no cleanup process exists.
package session

import (
	"context"
	"errors"
	"time"
)

// DefaultTTL is the fixed session lifetime applied when the
// configuration does not override it.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned by Resolve for tokens that are unknown or
// expired. The two cases are indistinguishable by design.
var ErrNotFound = errors.New("session not found")

// Store manages the token lifecycle against a TTL-capable key-value
// backend.
//
// Thread safety: implementations must be safe for concurrent use.
type Store interface {
	// Create generates a token from a cryptographically strong random
	// source, maps it to userID with the store's TTL, and returns it.
	Create(ctx context.Context, userID string) (string, error)

	// Resolve returns the user id bound to token, or ErrNotFound when
	// the token is unknown or expired. Resolving never extends the TTL.
	Resolve(ctx context.Context, token string) (string, error)

	// Revoke deletes the mapping. Idempotent: revoking an unknown or
	// already-revoked token is not an error.
	Revoke(ctx context.Context, token string) error

	// Healthcheck verifies the backend is reachable.
	Healthcheck(ctx context.Context) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
