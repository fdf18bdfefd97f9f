package store

import (
	"errors"
	"fmt"
)

// Common document store errors
var (
	// ErrDocumentNotFound is returned when the state file does not exist.
	ErrDocumentNotFound = errors.New("document file not found")

	// ErrMalformedJSON is returned when the file is not valid JSON.
	ErrMalformedJSON = errors.New("document file is not valid JSON")

	// ErrNotAnObject is returned when the file holds JSON that is not an
	// object, such as an array or a number.
	ErrNotAnObject = errors.New("document file does not contain a JSON object")

	// ErrMigrationFailed is returned when the document could not be upgraded.
	// Nothing is loaded in that case.
	ErrMigrationFailed = errors.New("document migration failed")

	// ErrDocumentTooLarge is returned when the file exceeds MaxDocumentSizeBytes.
	ErrDocumentTooLarge = errors.New("document exceeds maximum size limit")
)

// StoreError wraps errors with the operation and file they concern.
type StoreError struct {
	// Op is the operation that failed (e.g., "Load", "Save").
	Op string

	// Path is the document file.
	Path string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("store: %s %s failed: %s: %v", e.Op, e.Path, e.Details, e.Err)
	}
	return fmt.Sprintf("store: %s %s failed: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError.
func NewStoreError(op, path string, err error, details string) *StoreError {
	return &StoreError{
		Op:      op,
		Path:    path,
		Err:     err,
		Details: details,
	}
}
