package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrUnauthenticated indicates a missing token locally or a 401 from the
	// finance API. It invalidates the whole session, not just one request.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrAuthenticationFailed indicates a rejected login attempt
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrRegistrationFailed indicates a rejected registration attempt
	ErrRegistrationFailed = errors.New("registration failed")

	// ErrInvalidInput indicates invalid input data caught before any request
	ErrInvalidInput = errors.New("invalid input")

	// ErrRequestFailed indicates a non-401 upstream failure
	ErrRequestFailed = errors.New("request failed")
)

// RequestError carries the upstream status and the server's human-readable
// detail message for non-401 failures.
type RequestError struct {
	StatusCode int
	Detail     string
	Kind       error
}

func (e *RequestError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Request failed (%d)", e.StatusCode)
}

// Unwrap lets errors.Is match the error kind (ErrRequestFailed,
// ErrAuthenticationFailed, ...).
func (e *RequestError) Unwrap() error {
	if e.Kind != nil {
		return e.Kind
	}
	return ErrRequestFailed
}

// NewRequestError builds a RequestError of the given kind.
func NewRequestError(kind error, statusCode int, detail string) *RequestError {
	return &RequestError{StatusCode: statusCode, Detail: detail, Kind: kind}
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
