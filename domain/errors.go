package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the assessment pipeline. Callers test for them with
// errors.Is; context is added by wrapping.
var (
	ErrSchemaMismatch   = errors.New("schema mismatch")
	ErrModelUnavailable = errors.New("model unavailable")
	ErrInvalidLoanTerms = errors.New("invalid loan terms")
)

// FieldError reports which input field caused a failure.
type FieldError struct {
	Kind   error
	Field  string
	Detail string
}

func NewFieldError(kind error, field, detail string) *FieldError {
	return &FieldError{Kind: kind, Field: field, Detail: detail}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Field, e.Detail)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// KindOf names the error kind of err for logs, metrics and API responses.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSchemaMismatch):
		return "schema_mismatch"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	case errors.Is(err, ErrInvalidLoanTerms):
		return "invalid_loan_terms"
	default:
		return "internal"
	}
}

// FieldOf returns the offending field recorded in err, if any.
func FieldOf(err error) string {
	var fe *FieldError
	if errors.As(err, &fe) {
		return fe.Field
	}
	return ""
}
