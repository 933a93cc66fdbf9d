package types

import "fmt"

// FormatError reports a tagged value string whose suffix does not match
// the object:/number: grammar. It aborts the whole normalization run.
type FormatError struct {
	Value  string
	Reason string
}

// NewFormatError constructs a FormatError for the given value.
func NewFormatError(value, reason string) *FormatError {
	return &FormatError{Value: value, Reason: reason}
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed value %q: %s", e.Value, e.Reason)
}

// MissingFieldError reports an event record that lacks a required field.
// Every recorded event is expected to carry a timestamp, so a missing
// time field means the document was not produced by the tracer.
type MissingFieldError struct {
	Field string
	Index int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("trace[%d] missing required field %q", e.Index, e.Field)
}

// SchemaError reports a document that does not have the expected
// top-level shape.
type SchemaError struct {
	Detail string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid trace document: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("invalid trace document: %s", e.Detail)
}

func (e *SchemaError) Unwrap() error { return e.Err }
