package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports invalid numeric input to an engine operation,
// identifying the offending field. This is the only class of caller-facing
// error the engine raises; insufficient data and divide-by-zero situations
// are reported as flagged zero/neutral results instead.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
