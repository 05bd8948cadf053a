package schema

import (
	"errors"
	"fmt"
)

// Sentinel errors for the two failure tiers.
var (
	// ErrShape marks a contract violation by the caller: a field that must be a
	// sequence or mapping has a structurally different type. Shape errors abort.
	ErrShape = errors.New("shape error")

	// ErrUnhashableLabel marks a composite label element that cannot be tallied.
	ErrUnhashableLabel = fmt.Errorf("%w: unhashable label", ErrShape)

	// ErrInvalidRecord marks a single malformed record. Callers skip it and continue.
	ErrInvalidRecord = errors.New("invalid record")
)

// ShapeError describes a field whose type violates the expected record shape.
type ShapeError struct {
	Field  string // Field name, e.g. "labels" or "events[2]"
	Number int    // Issue number when known, 0 otherwise
	Got    string // Go type name of the offending value
	Want   string // Expected shape
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Number != 0 {
		return fmt.Sprintf("issue #%d: field %q must be %s, got %s", e.Number, e.Field, e.Want, e.Got)
	}
	return fmt.Sprintf("field %q must be %s, got %s", e.Field, e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrShape.
func (e *ShapeError) Unwrap() error {
	return ErrShape
}

// RecordError describes a per-record failure that excludes one record from a batch.
type RecordError struct {
	Number int
	Reason string
}

// Error implements the error interface.
func (e *RecordError) Error() string {
	return fmt.Sprintf("issue #%d: %s", e.Number, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidRecord.
func (e *RecordError) Unwrap() error {
	return ErrInvalidRecord
}

// typeName returns a short human description of a dynamic value's type.
func typeName(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%T", v)
}
