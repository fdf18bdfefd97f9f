package migrations

import (
	"fmt"

	"invoicer/internal/invoice/schemas"
)

// Summary lists the changes Migrate would make to data, in step order. It
// never returns an empty list.
func (m *Migrator) Summary(data any) []string {
	detection := DetectSchemaVersion(data)
	if detection.Version >= schemas.CurrentVersion {
		return []string{fmt.Sprintf("No migration needed: document is already at schema v%d", schemas.CurrentVersion)}
	}

	raw, _ := schemas.AsObject(data)

	var lines []string
	for version := detection.Version; version < schemas.CurrentVersion; version++ {
		step, ok := m.registry.Lookup(version)
		if !ok {
			lines = append(lines, fmt.Sprintf("No migration is registered from v%d; the document cannot be upgraded", version))
			break
		}
		lines = append(lines, step.Describe(raw)...)
	}
	return lines
}

// GetMigrationSummary describes the default migration of data.
func GetMigrationSummary(data any) []string {
	return NewMigrator(defaultRegistry).Summary(data)
}
