package schema

import (
	"errors"
	"fmt"
	"net/http"

	"fraudrisk/pkg/serrors"
)

// ErrSchemaMismatch is the kind of every error returned by this package.
var ErrSchemaMismatch = serrors.NewKind("SCHEMA_MISMATCH") //nolint: gochecknoglobals

func init() { //nolint: gochecknoinits
	serrors.RegisterStatus(ErrSchemaMismatch, http.StatusBadRequest)
}

// Reason classifies a schema violation.
type Reason string

const (
	ReasonMissing     Reason = "missing"
	ReasonExtra       Reason = "extra"
	ReasonOutOfDomain Reason = "out of domain"
	ReasonMismatch    Reason = "mismatch"
)

// FieldError names the field that violated the schema, with the expected and
// actual shape or value.
type FieldError struct {
	Field    string
	Reason   Reason
	Expected string
	Actual   string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %s (expected %s, got %s)", e.Field, e.Reason, e.Expected, e.Actual)
}

func mismatch(field string, reason Reason, expected, actual string) error {
	return serrors.Wrap(ErrSchemaMismatch, &FieldError{
		Field:    field,
		Reason:   reason,
		Expected: expected,
		Actual:   actual,
	}, "schema mismatch")
}

// Mismatch builds a schema mismatch error for callers that detect a violation
// before a vector exists, e.g. a non-numeric item in a request body.
func Mismatch(field string, reason Reason, expected, actual string) error {
	return mismatch(field, reason, expected, actual)
}

// FieldOf returns the offending field of a schema mismatch error, if any.
func FieldOf(err error) (*FieldError, bool) {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe, true
	}

	return nil, false
}
