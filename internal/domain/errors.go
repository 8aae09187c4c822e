package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")

	// ErrFetch covers network failures, timeouts, and non-2xx responses.
	ErrFetch = errors.New("fetch failed")
	// ErrParse covers malformed HTML or JSON payloads.
	ErrParse = errors.New("parse failed")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// FetchError is returned when an outbound request does not produce a usable body.
// Status is 0 when no response was received.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s failed", e.URL)
}

// Unwrap exposes both ErrFetch and the underlying cause to errors.Is.
func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrFetch}
	}
	return []error{ErrFetch, e.Err}
}

// ParseError is returned when a payload does not have the expected shape.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("parse %s payload", e.Source)
	}
	return fmt.Sprintf("parse %s payload: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}
