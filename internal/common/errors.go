// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Backend errors.
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")

	// Category errors.
	ErrProtectedCategory = errors.New("predefined categories cannot be deleted")

	// Draft errors.
	ErrMissingCategory = errors.New("category is required")
	ErrInvalidAmount   = errors.New("amount must be greater than zero")
	ErrInvalidDate     = errors.New("invalid date")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrNoSession     = errors.New("not logged in")
)

// ValidationError is a local, synchronous error raised before submission.
// It is surfaced in the originating form and never sent to the backend.
type ValidationError struct {
	Err   error
	Field string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err as a form-level validation failure.
func NewValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
