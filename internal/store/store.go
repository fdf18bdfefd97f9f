// Package store persists the editing state to a local JSON file, the
// command-line counterpart of the builder's browser storage.
//
// Loading runs the full open-file flow: parse, detect, migrate, check the
// load-bearing fields, merge defaults for whatever is still missing and
// decode into the current schema. A failure at any step aborts the load;
// nothing is returned half-migrated. Saving always writes the current schema
// version.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"invoicer/internal/invoice"
	"invoicer/internal/invoice/migrations"
	"invoicer/internal/invoice/schemas"
	"invoicer/internal/logger"
)

// MaxDocumentSizeBytes bounds the size of a document file.
const MaxDocumentSizeBytes int64 = 5 * 1024 * 1024

// LoadResult is a loaded document together with what happened to it.
type LoadResult struct {
	Document  schemas.Current
	Detection migrations.Detection
	Migration *migrations.Result

	// Missing lists required fields absent after migration; Filled lists
	// every key taken from the defaults.
	Missing []string
	Filled  []string

	Warnings []string
}

// FileStore reads and writes one document file.
type FileStore struct {
	path     string
	defaults invoice.Defaults
	log      zerolog.Logger
}

// NewFileStore creates a store for path. defaults supply values for fields a
// loaded document lacks.
func NewFileStore(path string, defaults invoice.Defaults) *FileStore {
	return &FileStore{
		path:     path,
		defaults: defaults,
		log:      logger.WithFile("store", path),
	}
}

// Path returns the document file path.
func (s *FileStore) Path() string {
	return s.path
}

// Read returns the parsed JSON value of the file without migrating it.
func (s *FileStore) Read(ctx context.Context) (any, error) {
	const op = "Read"

	if err := ctx.Err(); err != nil {
		return nil, NewStoreError(op, s.path, err, "")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, NewStoreError(op, s.path, ErrDocumentNotFound, "")
		}
		return nil, NewStoreError(op, s.path, err, "stat")
	}
	if info.Size() > MaxDocumentSizeBytes {
		return nil, NewStoreError(op, s.path, ErrDocumentTooLarge, fmt.Sprintf("%d bytes", info.Size()))
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, NewStoreError(op, s.path, err, "read")
	}

	value, err := Parse(data)
	if err != nil {
		return nil, NewStoreError(op, s.path, err, "")
	}
	return value, nil
}

// Load opens the document, upgrading it to the current schema.
func (s *FileStore) Load(ctx context.Context) (*LoadResult, error) {
	const op = "Load"

	data, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	if _, ok := schemas.AsObject(data); !ok {
		return nil, NewStoreError(op, s.path, ErrNotAnObject, "")
	}

	result := &LoadResult{
		Detection: migrations.DetectSchemaVersion(data),
	}

	migrated, err := migrations.Migrate(data)
	if err != nil {
		s.log.Error().
			Err(err).
			Int("version", result.Detection.Version).
			Msg("Migration failed, document not loaded")
		return nil, NewStoreError(op, s.path, fmt.Errorf("%w: %w", ErrMigrationFailed, err), "")
	}
	result.Migration = migrated
	result.Warnings = append(result.Warnings, migrated.Warnings...)

	result.Missing = migrations.ValidateCurrentSchema(migrated.Data)

	raw, _ := schemas.AsObject(migrated.Data)
	merged, filled, err := invoice.MergeDefaults(raw, invoice.NewDocument(s.defaults))
	if err != nil {
		return nil, NewStoreError(op, s.path, err, "merge defaults")
	}
	result.Filled = filled

	doc, lost, err := schemas.Decode[schemas.Current](merged)
	if err != nil {
		return nil, NewStoreError(op, s.path, err, "decode")
	}
	for _, mismatch := range lost {
		result.Warnings = append(result.Warnings, schemas.Mismatch(mismatch))
	}
	if doc.SchemaVersion > schemas.CurrentVersion {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("document declares schema v%d, newer than v%d; unknown fields are ignored", doc.SchemaVersion, schemas.CurrentVersion))
	}
	doc.SchemaVersion = schemas.CurrentVersion
	result.Document = doc

	s.log.Info().
		Int("from_version", migrated.FromVersion).
		Int("to_version", migrated.ToVersion).
		Strs("path", migrated.MigrationPath).
		Strs("missing", result.Missing).
		Int("warnings", len(result.Warnings)).
		Msg("Document loaded")

	return result, nil
}

// Save writes doc at the current schema version.
func (s *FileStore) Save(ctx context.Context, doc schemas.Current) error {
	doc.SchemaVersion = schemas.CurrentVersion
	if err := WriteJSON(ctx, s.path, doc); err != nil {
		return err
	}

	s.log.Info().
		Str("invoice_number", doc.InvoiceNumber).
		Int("line_items", len(doc.LineItems)).
		Msg("Document saved")
	return nil
}

// Parse decodes a document file. It rejects trailing data after the first
// JSON value.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var value any
	if err := dec.Decode(&value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after document", ErrMalformedJSON)
	}
	return value, nil
}

// WriteJSON writes v to path as indented JSON. The file is replaced
// atomically: the data goes to a temporary file in the same directory which
// is then renamed over path.
func WriteJSON(ctx context.Context, path string, v any) error {
	const op = "Write"

	if err := ctx.Err(); err != nil {
		return NewStoreError(op, path, err, "")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return NewStoreError(op, path, err, "marshal")
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return NewStoreError(op, path, err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return NewStoreError(op, path, err, "chmod temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return NewStoreError(op, path, err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return NewStoreError(op, path, err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return NewStoreError(op, path, err, "rename")
	}
	return nil
}
