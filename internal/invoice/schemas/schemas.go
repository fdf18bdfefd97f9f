// Package schemas holds the frozen, versioned shapes of the persisted invoice
// document.
//
// Each version is its own self-contained struct. A version that has shipped
// is never edited: new fields, renames and retypes go into a new version
// together with a migrator in the migrations package. The fingerprint test in
// this package pins the structure of every historical version so that an
// accidental edit fails the build.
//
// Documents are parsed into Raw, a loosely-typed map, first. The version is
// decided on that representation, and only then is the matching strongly
// typed variant built with Decode.
package schemas

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// CurrentVersion is the schema version every saved document is written in.
// It is the only place that changes when a new version is introduced.
const CurrentVersion = 3

// VersionField is the JSON key carrying the explicit version tag.
const VersionField = "schemaVersion"

// Raw is a parsed JSON object before its version is known.
type Raw = map[string]any

// Document is implemented by every frozen schema version.
type Document interface {
	// Version returns the schema version of the variant.
	Version() int

	sealed()
}

// AsObject reports whether data is a non-null JSON object and returns it.
func AsObject(data any) (Raw, bool) {
	raw, ok := data.(map[string]any)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// Decode builds the typed variant T from raw, one field at a time.
//
// Values whose JSON type does not match the schema are left at their zero
// value instead of failing the decode. Every such mismatch is returned in lost
// with Field set to the key it came from, so callers can report them all. err
// is only set when a value cannot be encoded.
func Decode[T Document](raw Raw) (doc T, lost []*json.UnmarshalTypeError, err error) {
	v := reflect.ValueOf(&doc).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		name := jsonName(t.Field(i))
		value, ok := raw[name]
		if name == "" || !ok {
			continue
		}

		data, err := json.Marshal(value)
		if err != nil {
			return doc, nil, fmt.Errorf("encode field %q: %w", name, err)
		}

		if err := json.Unmarshal(data, v.Field(i).Addr().Interface()); err != nil {
			var typeErr *json.UnmarshalTypeError
			if !errors.As(err, &typeErr) {
				return doc, nil, fmt.Errorf("decode v%d field %q: %w", doc.Version(), name, err)
			}
			mismatch := *typeErr
			mismatch.Field = name
			if typeErr.Field != "" {
				mismatch.Field = name + "." + typeErr.Field
			}
			lost = append(lost, &mismatch)
		}
	}

	return doc, lost, nil
}

// Mismatch formats a type mismatch reported by Decode.
func Mismatch(e *json.UnmarshalTypeError) string {
	return fmt.Sprintf("field %q: expected %s, got %s; value dropped", e.Field, e.Type, e.Value)
}

// LostFields returns the top-level keys named by the mismatches in lost.
func LostFields(lost []*json.UnmarshalTypeError) map[string]struct{} {
	fields := make(map[string]struct{}, len(lost))
	for _, e := range lost {
		name, _, _ := strings.Cut(e.Field, ".")
		fields[name] = struct{}{}
	}
	return fields
}

// Encode converts a typed variant back into its loosely-typed form.
func Encode(doc Document) (Raw, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode v%d document: %w", doc.Version(), err)
	}

	raw := Raw{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode v%d document: %w", doc.Version(), err)
	}
	return raw, nil
}

// FieldNames returns the JSON keys declared by the variant's struct.
func FieldNames(doc Document) []string {
	t := reflect.TypeOf(doc)
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name := jsonName(t.Field(i)); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// SharedFields returns the keys declared by both a and b with the same Go
// type. The version tag is never shared.
func SharedFields(a, b Document) []string {
	types := make(map[string]reflect.Type)
	ta := reflect.TypeOf(a)
	for i := 0; i < ta.NumField(); i++ {
		if name := jsonName(ta.Field(i)); name != "" {
			types[name] = ta.Field(i).Type
		}
	}

	var shared []string
	tb := reflect.TypeOf(b)
	for i := 0; i < tb.NumField(); i++ {
		name := jsonName(tb.Field(i))
		if name == "" || name == VersionField {
			continue
		}
		if typ, ok := types[name]; ok && typ == tb.Field(i).Type {
			shared = append(shared, name)
		}
	}
	return shared
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Unknown returns the entries of raw that are not part of doc's schema.
func Unknown(raw Raw, doc Document) Raw {
	known := make(map[string]struct{})
	for _, name := range FieldNames(doc) {
		known[name] = struct{}{}
	}

	extra := Raw{}
	for key, value := range raw {
		if _, ok := known[key]; !ok {
			extra[key] = value
		}
	}
	return extra
}

// Fingerprint hashes the structure of a variant: field names, Go types and
// JSON tags, including nested structs such as line items.
func Fingerprint(doc Document) string {
	h := sha256.New()
	writeStruct(h, reflect.TypeOf(doc), "")
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func writeStruct(w io.Writer, t reflect.Type, indent string) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		fmt.Fprintf(w, "%s%s %s %q\n", indent, f.Name, f.Type, f.Tag.Get("json"))

		elem := f.Type
		if elem.Kind() == reflect.Slice {
			elem = elem.Elem()
		}
		if elem.Kind() == reflect.Struct {
			writeStruct(w, elem, indent+"  ")
		}
	}
}
