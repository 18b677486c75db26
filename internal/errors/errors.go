// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the supplied credentials (a password hash) did not open the
	// requested secret.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnprocessable indicates well-formed input that could not be processed, such as a
	// wrapped key that does not open under the presented private key.
	ErrUnprocessable = errors.New("unprocessable")

	// ErrUnavailable indicates an external collaborator (document store, blob store)
	// failed or timed out.
	ErrUnavailable = errors.New("upstream unavailable")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Unavailable marks err as an upstream failure unless it already carries a domain kind.
// Store adapters use it so that driver errors surface as ErrUnavailable while
// ErrNotFound passes through untouched.
func Unavailable(err error, message string) error {
	if err == nil {
		return nil
	}
	if Is(err, ErrNotFound) || Is(err, ErrUnavailable) {
		return Wrap(err, message)
	}
	return fmt.Errorf("%s: %w: %w", message, ErrUnavailable, err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
