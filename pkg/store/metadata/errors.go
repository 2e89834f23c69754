package metadata

// StoreError represents a domain error from store operations.
//
// These are business logic errors (record not found, duplicate email,
// invalid upload) as opposed to infrastructure errors (lost connection,
// disk failure). The HTTP adapter translates StoreError codes to status
// codes; infrastructure errors surface as generic server errors.
type StoreError struct {
	// Code is the error category.
	Code ErrorCode

	// Message is the caller-visible error description. For validation
	// failures this carries the exact reason ("Missing name", "Parent
	// is not a folder", ...).
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// ErrorCode represents the category of a store error.
type ErrorCode int

const (
	// ErrNotFound indicates the requested record does not exist or is
	// not visible to the requester. The two cases are deliberately
	// indistinguishable so private records are never revealed.
	ErrNotFound ErrorCode = iota

	// ErrAlreadyExists indicates a uniqueness violation (duplicate email).
	ErrAlreadyExists

	// ErrInvalidArgument indicates a validation failure on input.
	ErrInvalidArgument

	// ErrUnauthorized indicates a missing, unknown, or expired credential.
	ErrUnauthorized

	// ErrInvalidOperation indicates a well-formed request that cannot
	// apply to the target, e.g. fetching byte content of a folder.
	ErrInvalidOperation

	// ErrIO indicates an unexpected store or filesystem failure.
	ErrIO
)

// NewError creates a StoreError with the given code and message.
func NewError(code ErrorCode, message string) *StoreError {
	return &StoreError{Code: code, Message: message}
}

// ErrCode extracts the ErrorCode from err. The second return is false
// when err is not a StoreError.
func ErrCode(err error) (ErrorCode, bool) {
	if se, ok := err.(*StoreError); ok {
		return se.Code, true
	}
	return 0, false
}

// IsNotFound reports whether err is a StoreError with code ErrNotFound.
func IsNotFound(err error) bool {
	code, ok := ErrCode(err)
	return ok && code == ErrNotFound
}

// Shared domain errors. Messages are part of the wire contract.
var (
	ErrUserNotFound   = NewError(ErrNotFound, "Not found")
	ErrFileNotFound   = NewError(ErrNotFound, "Not found")
	ErrDuplicateEmail = NewError(ErrAlreadyExists, "Already exist")

	ErrMissingEmail    = NewError(ErrInvalidArgument, "Missing email")
	ErrMissingPassword = NewError(ErrInvalidArgument, "Missing password")

	ErrMissingName     = NewError(ErrInvalidArgument, "Missing name")
	ErrMissingType     = NewError(ErrInvalidArgument, "Missing type")
	ErrMissingData     = NewError(ErrInvalidArgument, "Missing data")
	ErrParentNotFound  = NewError(ErrInvalidArgument, "Parent not found")
	ErrParentNotFolder = NewError(ErrInvalidArgument, "Parent is not a folder")

	ErrFolderHasNoContent = NewError(ErrInvalidOperation, "A folder doesn't have content")
)
