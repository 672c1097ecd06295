// Package status provides the per-call result object returned by the CRUD
// dispatcher. Expected failures (entity not found, validation, business rules)
// are recorded here instead of being returned as Go errors.
package status

import (
	"errors"
	"fmt"
	"strings"

	"crudkit/internal/domain/entity"
)

// Separator joins messages in GetAllErrors.
const Separator = "\n"

// Kind classifies a recorded error.
type Kind string

const (
	// KindNotFound is recorded when a key lookup yields nothing visible.
	KindNotFound Kind = "not_found"
	// KindValidation is recorded for entity or DTO rule violations.
	KindValidation Kind = "validation"
	// KindBusiness is recorded for errors added by caller-supplied actions.
	KindBusiness Kind = "business"
)

// Error is a single recorded failure.
type Error struct {
	Kind    Kind
	Field   string
	Message string
}

func (e Error) String() string {
	return e.Message
}

// Status accumulates errors in the order they were added, and a success
// message that is only reported while no error is present.
// The zero value is ready to use.
type Status struct {
	errors  []Error
	message string
}

// New returns an empty, valid Status.
func New() *Status {
	return &Status{}
}

// AddError records a business error, optionally naming the fields involved.
func (s *Status) AddError(message string, fields ...string) *Status {
	s.errors = append(s.errors, Error{
		Kind:    KindBusiness,
		Field:   strings.Join(fields, ","),
		Message: message,
	})
	return s
}

// AddNotFound records a not-found error.
func (s *Status) AddNotFound(message string) *Status {
	s.errors = append(s.errors, Error{Kind: KindNotFound, Message: message})
	return s
}

// AddValidationError records every violation carried by err.
// A validation-class error without field detail is recorded as one message.
// A nil err is ignored.
func (s *Status) AddValidationError(err error) *Status {
	if err == nil {
		return s
	}
	violations := entity.Violations(err)
	if len(violations) == 0 {
		s.errors = append(s.errors, Error{Kind: KindValidation, Message: err.Error()})
		return s
	}
	for _, v := range violations {
		s.errors = append(s.errors, Error{
			Kind:    KindValidation,
			Field:   v.Field,
			Message: v.Message,
		})
	}
	return s
}

// CombineStatuses appends the errors of other. When other is valid and this
// status has no message yet, other's message is taken over.
func (s *Status) CombineStatuses(other *Status) *Status {
	if other == nil {
		return s
	}
	s.errors = append(s.errors, other.errors...)
	if s.message == "" && other.IsValid() {
		s.message = other.message
	}
	return s
}

// SetMessage sets the human-readable success message.
func (s *Status) SetMessage(message string) *Status {
	s.message = message
	return s
}

// IsValid reports whether no error has been recorded.
func (s *Status) IsValid() bool {
	return len(s.errors) == 0
}

// HasErrors is the negation of IsValid.
func (s *Status) HasErrors() bool {
	return !s.IsValid()
}

// Errors returns a copy of the recorded errors in insertion order.
func (s *Status) Errors() []Error {
	out := make([]Error, len(s.errors))
	copy(out, s.errors)
	return out
}

// ErrorsOfKind returns the recorded errors of the given kind.
func (s *Status) ErrorsOfKind(kind Kind) []Error {
	var out []Error
	for _, e := range s.errors {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// GetAllErrors joins every message with Separator. Empty when valid.
func (s *Status) GetAllErrors() string {
	msgs := make([]string, 0, len(s.errors))
	for _, e := range s.errors {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, Separator)
}

// Message returns the success message, or a failure summary when errors
// have been recorded.
func (s *Status) Message() string {
	if n := len(s.errors); n > 0 {
		if n == 1 {
			return "Failed with 1 error"
		}
		return fmt.Sprintf("Failed with %d errors", n)
	}
	return s.message
}

// Err converts the status into a Go error for callers that prefer error
// returns. Nil when valid.
func (s *Status) Err() error {
	if s.IsValid() {
		return nil
	}
	errs := make([]error, 0, len(s.errors))
	for _, e := range s.errors {
		if e.Kind == KindNotFound {
			errs = append(errs, fmt.Errorf("%s: %w", e.Message, entity.ErrNotFound))
			continue
		}
		errs = append(errs, errors.New(e.Message))
	}
	return errors.Join(errs...)
}
