package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeUpstream   ErrorType = "upstream"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// DocsError is a structured error type with context.
type DocsError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}
	// Status is the HTTP status the error should be reported with. Zero means
	// the status is derived from Type.
	Status int
}

// Error implements the error interface.
func (e *DocsError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}
	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")
	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *DocsError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *DocsError) Is(target error) bool {
	var t *DocsError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *DocsError) WithContext(key string, value interface{}) *DocsError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithStatus overrides the HTTP status reported for the error.
func (e *DocsError) WithStatus(status int) *DocsError {
	e.Status = status

	return e
}

// HTTPStatus returns the status code the error maps to.
func (e *DocsError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Type {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *DocsError {
	return &DocsError{Type: ErrorTypeValidation, Code: code, Message: message}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(code, message string) *DocsError {
	return &DocsError{Type: ErrorTypeNotFound, Code: code, Message: message}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *DocsError {
	return &DocsError{Type: ErrorTypeIO, Code: code, Message: message, Cause: cause}
}

// NewUpstreamError creates an error for a failed call to a remote API. status
// is the status the proxy should answer with.
func NewUpstreamError(code, message string, status int) *DocsError {
	return &DocsError{Type: ErrorTypeUpstream, Code: code, Message: message, Status: status}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *DocsError {
	return &DocsError{Type: ErrorTypeConfig, Code: code, Message: message}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *DocsError {
	return &DocsError{Type: ErrorTypeInternal, Code: code, Message: message, Cause: cause}
}

// IsNotFound reports whether err is a not-found DocsError.
func IsNotFound(err error) bool {
	var de *DocsError
	if errors.As(err, &de) {
		return de.Type == ErrorTypeNotFound
	}

	return false
}

// HTTPStatus returns the status for any error; plain errors are 500.
func HTTPStatus(err error) int {
	var de *DocsError
	if errors.As(err, &de) {
		return de.HTTPStatus()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// PublicMessage returns the message suitable for a JSON error body. Causes are
// never exposed.
func PublicMessage(err error) string {
	var de *DocsError
	if errors.As(err, &de) {
		return de.Message
	}

	return "Internal server error"
}

// Wrap annotates err with message. The innermost DocsError still decides the
// HTTP status and public message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", message, err)
}
