package migrations

import (
	"errors"
	"fmt"
)

// Common migration errors
var (
	// ErrMissingMigrator is returned when the chain from the detected version
	// to the current version has a gap. This is a programming defect: a schema
	// bump shipped without its migrator.
	ErrMissingMigrator = errors.New("no migrator registered for schema version")

	// ErrDuplicateMigrator is returned when two steps are registered for the
	// same source version.
	ErrDuplicateMigrator = errors.New("migrator already registered for schema version")

	// ErrInvalidStep is returned when a step does not advance exactly one
	// version.
	ErrInvalidStep = errors.New("migration step must advance exactly one version")

	// ErrInvalidDocument is returned when a document cannot be turned into its
	// typed schema variant.
	ErrInvalidDocument = errors.New("invalid invoice document")
)

// MigrationError wraps errors with the version transition that failed.
type MigrationError struct {
	// Op is the operation that failed (e.g., "Migrate", "Register").
	Op string

	// From is the source schema version.
	From int

	// To is the target schema version.
	To int

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *MigrationError) Error() string {
	return fmt.Sprintf("migrations: %s v%d → v%d failed: %v", e.Op, e.From, e.To, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *MigrationError) Unwrap() error {
	return e.Err
}

// NewMigrationError creates a new MigrationError.
func NewMigrationError(op string, from, to int, err error) *MigrationError {
	return &MigrationError{
		Op:   op,
		From: from,
		To:   to,
		Err:  err,
	}
}

// WrapMigrationError wraps an error as a MigrationError if it isn't already one.
func WrapMigrationError(op string, from, to int, err error) error {
	if err == nil {
		return nil
	}

	var migrationErr *MigrationError
	if errors.As(err, &migrationErr) {
		return err
	}

	return NewMigrationError(op, from, to, err)
}

// MissingMigratorError reports the version whose outgoing step is missing.
type MissingMigratorError struct {
	Version int
}

// Error implements the error interface.
func (e *MissingMigratorError) Error() string {
	return fmt.Sprintf("no migrator registered for schema v%d → v%d", e.Version, e.Version+1)
}

// Is matches ErrMissingMigrator.
func (e *MissingMigratorError) Is(target error) bool {
	return target == ErrMissingMigrator
}
