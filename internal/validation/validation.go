// Package validation checks request shapes before they reach the user store.
//
// Each Validate function returns the converted input together with a Result.
// Callers must not use the input unless Result.OK() is true.
package validation

import (
	"errors"
	"strings"
)

// ErrInvalid is matched by every error produced from a failed Result.
var ErrInvalid = errors.New("validation failed")

// Field-level validation errors.
var (
	ErrRequired      = errors.New("is required")
	ErrNotNull       = errors.New("must not be null")
	ErrEmpty         = errors.New("must not be empty")
	ErrTooLong       = errors.New("exceeds maximum length")
	ErrInvalidEmail  = errors.New("must be a valid email address")
	ErrNotInteger    = errors.New("must be an integer")
	ErrOutOfRange    = errors.New("is out of range")
	ErrSearchMissing = errors.New("search query is required")
)

// FieldError ties a failure reason to the offending field.
type FieldError struct {
	Field string
	Err   error
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e FieldError) Unwrap() error {
	return e.Err
}

// Result is the outcome of validating one input shape.
type Result struct {
	Errors []FieldError
}

// OK reports whether validation passed.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Add records a failure for field.
func (r *Result) Add(field string, err error) {
	r.Errors = append(r.Errors, FieldError{Field: field, Err: err})
}

// Reasons returns the human-readable failure list.
func (r Result) Reasons() []string {
	out := make([]string, 0, len(r.Errors))
	for _, fe := range r.Errors {
		out = append(out, fe.Error())
	}
	return out
}

// Err returns nil when OK, otherwise an *Error.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{Fields: r.Errors}
}

// Error is the error form of a failed Result.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	return strings.Join(Result{Errors: e.Fields}.Reasons(), "; ")
}

// Is makes errors.Is(err, ErrInvalid) true.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Unwrap exposes the field errors to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, len(e.Fields))
	for _, fe := range e.Fields {
		errs = append(errs, fe)
	}
	return errs
}
