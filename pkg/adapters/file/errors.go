package file

import "fmt"

// FieldError represents a single invalid field of a frame.
type FieldError struct {
	Frame  string // Frame id, or its position when the id is missing
	Key    string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *FieldError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("frame %s: field %q: %s", e.Frame, e.Key, e.Reason)
	}
	return fmt.Sprintf("frame %s: field %q: %s (got %v)", e.Frame, e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple invalid fields.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap lets errors.Is and errors.As see every field error.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// FieldErrors returns all field errors if err is an AggregateError.
// Otherwise returns nil.
func FieldErrors(err error) []error {
	if aggr, ok := err.(*AggregateError); ok {
		return aggr.Errors
	}
	return nil
}
