// Package errors provides coded errors shared by the CLI and the HTTP API.
//
// A [Code] travels with the error through wrapping, so the API can pick a
// status with [HTTPStatus] and the CLI an exit status with [ExitCode]
// without string matching.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (rejected before any work is done)
//   - NOT_FOUND: Lookups that matched nothing
//   - RENDER_RESOURCE_UNAVAILABLE: Missing fonts; always recovered locally
//   - CACHE_BACKEND / INTERNAL_ERROR: Infrastructure failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidKey, "key %d outside 1..%d", key, max)
//	if errors.Is(err, errors.ErrCodeInvalidKey) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCacheBackend, origErr, "redis get %s", key)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidKey    Code = "INVALID_KEY"
	ErrCodeInvalidMode   Code = "INVALID_MODE"
	ErrCodeInvalidShape  Code = "INVALID_SHAPE"
	ErrCodeInvalidOption Code = "INVALID_OPTION"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Lookup errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Rendering resources. Never fatal: callers substitute a default.
	ErrCodeFontUnavailable Code = "RENDER_RESOURCE_UNAVAILABLE"

	// Infrastructure errors
	ErrCodeCacheBackend Code = "CACHE_BACKEND"
	ErrCodeInternal     Code = "INTERNAL_ERROR"
)

// Error carries a Code, a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of the outermost *Error, without code or
// cause. Other errors are returned as their string.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps an error to the HTTP status code the API responds with.
// Errors without a code are treated as internal failures.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidKey, ErrCodeInvalidMode, ErrCodeInvalidShape, ErrCodeInvalidOption:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeCacheBackend:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsInvalidInput reports whether err rejects caller input, as opposed to a
// failure while doing the work.
func IsInvalidInput(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidKey, ErrCodeInvalidMode, ErrCodeInvalidShape, ErrCodeInvalidOption, ErrCodeInvalidConfig:
		return true
	}
	return false
}

// ExitCode maps err to a process exit status: 0 for nil, 2 for invalid
// input and 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsInvalidInput(err):
		return 2
	default:
		return 1
	}
}
