package migrations

import (
	"encoding/json"
	"fmt"
	"math"

	"invoicer/internal/invoice/schemas"
)

// Confidence says how a schema version was determined.
type Confidence string

const (
	// ConfidenceExplicit means the document carried a schemaVersion tag.
	ConfidenceExplicit Confidence = "explicit"

	// ConfidenceInferred means the version was guessed from field presence.
	ConfidenceInferred Confidence = "inferred"
)

// Field names used as version signals.
const (
	fieldFromCountry         = "fromCountry"
	fieldFromCountryCode     = "fromCountryCode"
	fieldCustomerCountry     = "customerCountry"
	fieldCustomerCountryCode = "customerCountryCode"
	fieldPurchaseOrderNumber = "purchaseOrderNumber"
)

// Detection is the outcome of DetectSchemaVersion. Reason is shown to the
// user before a migration is confirmed.
type Detection struct {
	Version    int        `json:"version" yaml:"version"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`
	Reason     string     `json:"reason" yaml:"reason"`
}

// DetectSchemaVersion determines the schema version of any parsed JSON
// value. It never panics.
//
// Values that are not objects are reported as the current version so that
// nothing downstream tries to migrate them. An explicit whole-number
// schemaVersion is returned as is, without range checks against the known
// versions. Any other tag is ignored and named in the inferred reason.
func DetectSchemaVersion(data any) Detection {
	raw, ok := schemas.AsObject(data)
	if !ok {
		return Detection{
			Version:    schemas.CurrentVersion,
			Confidence: ConfidenceInferred,
			Reason:     "invalid data",
		}
	}

	tag, tagged := raw[schemas.VersionField]
	if version, ok := versionTag(tag); ok {
		return Detection{
			Version:    version,
			Confidence: ConfidenceExplicit,
			Reason:     fmt.Sprintf("explicit %s field: %d", schemas.VersionField, version),
		}
	}

	detection := inferFromShape(raw)
	if tagged {
		detection.Reason += fmt.Sprintf(" (ignored %s %s: not a usable version number)", schemas.VersionField, tagText(tag))
	}
	return detection
}

func inferFromShape(raw schemas.Raw) Detection {
	_, hasFromCode := raw[fieldFromCountryCode]
	_, hasCustomerCode := raw[fieldCustomerCountryCode]

	if isString(raw[fieldFromCountry]) && !hasFromCode {
		return inferred(1, "has string fromCountry and no fromCountryCode field")
	}
	if isString(raw[fieldCustomerCountry]) && !hasFromCode && !hasCustomerCode {
		return inferred(1, "has string customerCountry and no customerCountryCode field")
	}
	if hasFromCode {
		return inferred(2, "has fromCountryCode field")
	}
	if hasCustomerCode {
		return inferred(2, "has customerCountryCode field")
	}

	return inferred(schemas.CurrentVersion, "could not determine version")
}

// NeedsMigration reports whether data is older than the current schema.
func NeedsMigration(data any) bool {
	return DetectSchemaVersion(data).Version < schemas.CurrentVersion
}

func inferred(version int, reason string) Detection {
	return Detection{Version: version, Confidence: ConfidenceInferred, Reason: reason}
}

// versionTag accepts whole numbers only; anything else is treated as if the
// tag were absent.
func versionTag(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil || i > math.MaxInt32 || i < math.MinInt32 {
			return 0, false
		}
		return int(i), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func tagText(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}
