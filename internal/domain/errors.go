package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals a malformed input record or parameter.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateRecord signals a repeated letter identifier in a batch.
	ErrDuplicateRecord = errors.New("duplicate record")
	// ErrMalformedDate signals an unparseable date string.
	ErrMalformedDate = errors.New("malformed date")
	// ErrEmptyGraph signals a metric requested on a graph too small to carry it.
	ErrEmptyGraph = errors.New("empty graph")
	// ErrInvalidGraph signals a structural violation, such as a same-kind
	// edge in a bipartite projection. Always a programming defect.
	ErrInvalidGraph = errors.New("invalid graph")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrExtractorUnavailable signals a topic extraction provider failure.
	ErrExtractorUnavailable = errors.New("extractor unavailable")
)

// FieldError wraps ErrValidation with the offending record and field.
type FieldError struct {
	RecordID string
	Field    string
	Reason   string
}

func (e *FieldError) Error() string {
	if e.RecordID == "" {
		return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: record %q: %s: %s", ErrValidation.Error(), e.RecordID, e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error { return ErrValidation }

// NewFieldError creates a field-level validation error.
func NewFieldError(recordID, field, reason string) error {
	return &FieldError{RecordID: recordID, Field: field, Reason: reason}
}
