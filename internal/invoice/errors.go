package invoice

import (
	"errors"
	"fmt"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ErrInvalidDocument is returned when a document fails field validation.
var ErrInvalidDocument = errors.New("invalid invoice document")

// FieldError is one failed field rule. Field is a dotted JSON path such as
// "lineItems.0.id".
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

// Error implements the error interface.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// DocumentValidationError carries every field that failed validation.
type DocumentValidationError struct {
	Fields []FieldError
}

// Error implements the error interface.
func (e *DocumentValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("invoice: invalid document: %v", e.Fields[0])
	}
	return fmt.Sprintf("invoice: invalid document: %d fields failed validation (first: %v)", len(e.Fields), e.Fields[0])
}

// Is matches ErrInvalidDocument.
func (e *DocumentValidationError) Is(target error) bool {
	return target == ErrInvalidDocument
}

// newDocumentValidationError flattens ozzo validation errors into field
// errors sorted by path. Errors that are not validation errors are returned
// unchanged.
func newDocumentValidationError(err error) error {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return err
	}

	var fields []FieldError
	flatten("", errs, &fields)
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &DocumentValidationError{Fields: fields}
}

func flatten(prefix string, errs validation.Errors, out *[]FieldError) {
	for key, err := range errs {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		var nested validation.Errors
		if errors.As(err, &nested) {
			flatten(path, nested, out)
			continue
		}
		*out = append(*out, FieldError{Field: path, Message: err.Error()})
	}
}
