// Package migrations upgrades invoice documents of any known schema version
// to schemas.CurrentVersion.
//
// Inputs are never modified and nothing here touches storage; apart from
// log events every call is pure and can be repeated or run concurrently.
// Migration is strictly sequential; a v1 document goes through v1 → v2 and
// then v2 → v3, never directly to v3.
package migrations

import (
	"fmt"

	"github.com/rs/zerolog"
	"invoicer/internal/invoice/schemas"
	"invoicer/internal/logger"
)

var defaultRegistry = DefaultRegistry()

// Result is the outcome of a migration run.
type Result struct {
	// Data is the migrated document. When no step ran it is the input value
	// itself.
	Data any `json:"data"`

	FromVersion   int      `json:"fromVersion"`
	ToVersion     int      `json:"toVersion"`
	MigrationPath []string `json:"migrationPath"`

	// Warnings lists input values dropped because of type mismatches.
	Warnings []string `json:"warnings,omitempty"`
}

// Migrated reports whether at least one step ran.
func (r *Result) Migrated() bool {
	return len(r.MigrationPath) > 0
}

// Current decodes Data into the current schema.
func (r *Result) Current() (schemas.Current, []string, error) {
	raw, ok := schemas.AsObject(r.Data)
	if !ok {
		return schemas.Current{}, nil, NewMigrationError("Current", r.FromVersion, r.ToVersion, ErrInvalidDocument)
	}

	doc, lost, err := schemas.Decode[schemas.Current](raw)
	if err != nil {
		return schemas.Current{}, nil, NewMigrationError("Current", r.FromVersion, r.ToVersion, fmt.Errorf("%w: %v", ErrInvalidDocument, err))
	}

	var warnings []string
	for _, mismatch := range lost {
		warnings = append(warnings, schemas.Mismatch(mismatch))
	}
	return doc, warnings, nil
}

// Migrator runs the steps of a Registry.
type Migrator struct {
	registry *Registry
	log      zerolog.Logger
}

// NewMigrator creates a migrator over registry.
func NewMigrator(registry *Registry) *Migrator {
	return &Migrator{
		registry: registry,
		log:      logger.WithComponent("migrations"),
	}
}

// Migrate upgrades data to schemas.CurrentVersion.
//
// A gap in the registered chain fails the whole run with a
// *MissingMigratorError; partially migrated data is never returned.
func (m *Migrator) Migrate(data any) (*Result, error) {
	detection := DetectSchemaVersion(data)

	result := &Result{
		Data:          data,
		FromVersion:   detection.Version,
		ToVersion:     schemas.CurrentVersion,
		MigrationPath: []string{},
	}

	if detection.Version >= schemas.CurrentVersion {
		m.log.Debug().
			Int("version", detection.Version).
			Str("confidence", string(detection.Confidence)).
			Msg("Document is current, no migration needed")
		return result, nil
	}

	raw, _ := schemas.AsObject(data)
	version := detection.Version

	for version < schemas.CurrentVersion {
		step, ok := m.registry.Lookup(version)
		if !ok {
			m.log.Error().
				Int("version", version).
				Strs("path", result.MigrationPath).
				Msg("Migration chain has a gap")
			return nil, &MissingMigratorError{Version: version}
		}

		next, notes, err := step.Migrate(raw)
		if err != nil {
			return nil, WrapMigrationError("Migrate", step.From, step.To, err)
		}

		for _, note := range notes {
			m.log.Warn().
				Int("from", step.From).
				Int("to", step.To).
				Str("note", note).
				Msg("Dropped mistyped value during migration")
		}

		raw = next
		result.Warnings = append(result.Warnings, notes...)
		result.MigrationPath = append(result.MigrationPath, stepLabel(step.From, step.To))
		version = step.To

		m.log.Debug().
			Int("from", step.From).
			Int("to", step.To).
			Msg("Applied migration step")
	}

	result.Data = raw

	m.log.Debug().
		Int("from", result.FromVersion).
		Int("to", result.ToVersion).
		Strs("path", result.MigrationPath).
		Msg("Migration completed")

	return result, nil
}

// Migrate upgrades data with the default registry.
func Migrate(data any) (*Result, error) {
	return NewMigrator(defaultRegistry).Migrate(data)
}

func stepLabel(from, to int) string {
	return fmt.Sprintf("v%d → v%d", from, to)
}
