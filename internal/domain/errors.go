package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity or request payload fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")
)

// Kind classifies an Error raised while handling a request.
type Kind int

const (
	// KindInternal is an unexpected failure.
	KindInternal Kind = iota
	// KindBadRequest means the request cannot be served as sent.
	KindBadRequest
	// KindNotFound means a resource named by the request does not exist.
	KindNotFound
	// KindConflict means the request collides with the current state of a resource.
	KindConflict
)

// StatusCode returns the HTTP status that corresponds to the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a handler-raised error carrying a client-safe message.
// Err holds the underlying cause together with the stack captured at creation.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the cause to support errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status for the error's kind.
func (e *Error) StatusCode() int {
	return e.Kind.StatusCode()
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: pkgerrors.New(message)}
}

// NotFound creates a 404 error with the given message.
func NotFound(message string) *Error {
	return newError(KindNotFound, message)
}

// BadRequest creates a 400 error with the given message.
func BadRequest(message string) *Error {
	return newError(KindBadRequest, message)
}

// Conflict creates a 409 error with the given message.
func Conflict(message string) *Error {
	return newError(KindConflict, message)
}

// FieldError describes a single violated field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every violated field of a request.
type ValidationError struct {
	Errors []FieldError
	cause  error
}

// NewValidationError creates a ValidationError holding a single field violation.
// A nil cause defaults to ErrValidation.
func NewValidationError(field, message string, cause error) *ValidationError {
	ve := &ValidationError{cause: cause}
	ve.Add(field, message)
	return ve
}

// Add records a violation for the given field.
func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

// Has reports whether the field already has a recorded violation.
func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Err returns the ValidationError when it holds violations and nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		if fe.Field == "" {
			parts = append(parts, fe.Message)
			continue
		}
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the cause so errors.Is(err, ErrValidation) holds.
func (e *ValidationError) Unwrap() error {
	if e.cause == nil {
		return ErrValidation
	}
	return e.cause
}
