// Package blob defines byte-payload storage independent of metadata.
//
// Blob locations are opaque strings minted by the backend on write and
// recorded in the file's metadata record. Size variants (pre-scaled
// images and the like) live next to the base blob under a suffixed
// location; this package only retrieves them, it never generates them.
package blob

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Retrieve when the requested location (or
// requested variant) does not exist. True I/O failures are returned as
// distinct errors so they surface as server errors, not 404s.
var ErrNotFound = errors.New("blob not found")

// Store persists raw byte payloads.
//
// Backends: pkg/store/blob/fs (local content root) and
// pkg/store/blob/s3 (bucket storage).
//
// Thread safety: implementations must be safe for concurrent use.
// Locations are never reused across writes, so concurrent writers
// cannot collide.
type Store interface {
	// Store writes data under a fresh randomly generated location and
	// returns it. Locations are never reused.
	Store(ctx context.Context, data []byte) (string, error)

	// Retrieve opens the payload at location. When variant is
	// non-empty the exact variant-suffixed location must exist.
	// Returns ErrNotFound for absent locations or variants.
	Retrieve(ctx context.Context, location, variant string) (io.ReadCloser, error)

	// Remove deletes the payload at location. Used only for
	// best-effort cleanup when a metadata insert fails after a
	// successful write; a missing location is not an error.
	Remove(ctx context.Context, location string) error
}

// VariantLocation returns the location of a size variant, following
// the "<location>_<variant>" naming convention shared by all backends.
func VariantLocation(location, variant string) string {
	if variant == "" {
		return location
	}
	return location + "_" + variant
}
