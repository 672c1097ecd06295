package entity

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrValidationFailed indicates that validation checks have failed
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is reports ValidationError as a kind of ErrValidationFailed.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ValidationErrors collects every violation found by a single Validate call,
// in the order the checks ran.
type ValidationErrors []*ValidationError

// Error joins the individual messages with "; ".
func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual violations to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, 0, len(v))
	for _, e := range v {
		out = append(out, e)
	}
	return out
}

// Add appends a violation for field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, &ValidationError{Field: field, Message: message})
}

// OrNil returns nil when no violation was recorded so callers can
// `return errs.OrNil()` without returning a typed nil.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsValidation reports whether err carries validation failures rather than
// an infrastructure problem.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidationFailed)
}

// Violations flattens err into its individual ValidationError leaves.
// Errors without any ValidationError inside yield nil.
func Violations(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *ValidationError:
		return []*ValidationError{e}
	case ValidationErrors:
		return e
	}
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*ValidationError
		for _, inner := range multi.Unwrap() {
			out = append(out, Violations(inner)...)
		}
		return out
	}
	if inner := errors.Unwrap(err); inner != nil {
		return Violations(inner)
	}
	return nil
}
