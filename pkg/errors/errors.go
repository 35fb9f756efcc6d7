// Package errors provides structured error types for depstatus.
//
// Every terminal failure of a status check carries one of the pipeline codes
// below, so callers can tell which stage failed without parsing messages:
//   - FETCH_ERROR: the manifest could not be downloaded
//   - PARSE_ERROR: the manifest is not valid TOML
//   - SANDBOX_ERROR: the resolution workspace could not be created
//   - RESOLVE_ERROR: the external resolver failed or timed out
//   - LOCK_PARSE_ERROR: the resolver's lock output is missing or malformed
//
// Per-dependency problems (an unparseable version, a crate missing from the
// lock file) are not errors; they degrade to an unknown status for that
// dependency only.
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeFetch, origErr, "fetch %s/%s", owner, name)
//	if errors.Is(err, errors.ErrCodeFetch) {
//	    // Handle fetch failure
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Pipeline stage errors
	ErrCodeFetch     Code = "FETCH_ERROR"
	ErrCodeParse     Code = "PARSE_ERROR"
	ErrCodeSandbox   Code = "SANDBOX_ERROR"
	ErrCodeResolve   Code = "RESOLVE_ERROR"
	ErrCodeLockParse Code = "LOCK_PARSE_ERROR"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidRepo   Code = "INVALID_REPO"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource and transport errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
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

// Is reports whether any *Error in err's chain carries the given code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error chain holds no *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
