// Package metadata defines the user directory and file hierarchy
// contracts for FileVault.
//
// The metadata store manages account records and the file/folder
// hierarchy but does NOT manage file content. Byte payloads are stored
// separately in a blob store and referenced by location, which allows
// the two to scale and fail independently.
//
// Design principles:
//   - Consistent error handling: business failures are StoreError values
//   - Context-aware: every operation respects cancellation
//   - Existence-hiding: lookups scoped to an owner report "not found"
//     for records owned by someone else, never "forbidden"
//
// Thread safety: implementations must be safe for concurrent use by
// multiple goroutines.
package metadata

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store provides persistence for users and the file hierarchy.
//
// Backends: pkg/store/metadata/mongo (document store) and
// pkg/store/metadata/memory (in-process, used by tests and
// single-process deployments).
type Store interface {
	// CreateUser inserts a new account with a pre-hashed password.
	//
	// Returns:
	//   - *User: the created record
	//   - error: ErrDuplicateEmail if the email is taken
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)

	// FindUserByEmail looks an account up by its unique email.
	// Returns ErrUserNotFound when no account matches.
	FindUserByEmail(ctx context.Context, email string) (*User, error)

	// FindUserByID looks an account up by id.
	// Returns ErrUserNotFound when no account matches.
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)

	// InsertFile persists a new file record. The record is inserted
	// exactly as given; all validation happens before this call.
	// The returned record carries the assigned id.
	InsertFile(ctx context.Context, file *File) (*File, error)

	// FindFile retrieves a record by id regardless of owner. Used only
	// by paths that apply their own visibility policy afterwards
	// (content retrieval, parent validation).
	//
	// Returns ErrFileNotFound when the id does not exist.
	FindFile(ctx context.Context, id primitive.ObjectID) (*File, error)

	// FindFileOwned retrieves a record by id scoped to an owner.
	// A record owned by a different user yields ErrFileNotFound,
	// indistinguishable from a missing id.
	FindFileOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*File, error)

	// ListFiles returns the page-th page (zero-based, PageSize records
	// per page) of files owned by ownerID under the given parent.
	// Pages past the end yield an empty slice, not an error.
	ListFiles(ctx context.Context, ownerID primitive.ObjectID, parent ParentRef, page int) ([]File, error)

	// SetFileVisibility flips the isPublic flag of an owned record and
	// returns the updated record. Idempotent: writing the current
	// value still succeeds. Same ownership semantics as FindFileOwned.
	SetFileVisibility(ctx context.Context, id, ownerID primitive.ObjectID, public bool) (*File, error)

	// CountUsers returns the total number of accounts.
	CountUsers(ctx context.Context) (int64, error)

	// CountFiles returns the total number of file records.
	CountFiles(ctx context.Context) (int64, error)

	// Healthcheck verifies the backend is reachable.
	Healthcheck(ctx context.Context) error

	// Close releases backend resources. Safe to call once at shutdown.
	Close(ctx context.Context) error
}
