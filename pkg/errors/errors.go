// Package errors provides structured error types for the bike builder.
//
// Every recoverable condition raised by the engine carries a machine-readable
// [Code] so callers (CLI, TUI, HTTP API) can react without string matching:
//   - LOAD_ERROR: the catalog payload was absent or malformed
//   - INVALID_CATEGORY: a category outside the fixed taxonomy was named
//   - INELIGIBLE_ADVANCE: advance was requested without a selection or past the end
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCategory, "unknown category %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidCategory) {
//	    // report and keep going
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLoad, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Engine errors
	ErrCodeLoad              Code = "LOAD_ERROR"
	ErrCodeInvalidCategory   Code = "INVALID_CATEGORY"
	ErrCodeIneligibleAdvance Code = "INELIGIBLE_ADVANCE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound        Code = "NOT_FOUND"
	ErrCodePartNotFound    Code = "PART_NOT_FOUND"
	ErrCodeSessionNotFound Code = "SESSION_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// The outermost *Error decides.
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

// Load is shorthand for a LOAD_ERROR wrapping cause.
func Load(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeLoad, cause, format, args...)
}

// InvalidCategory reports a category name outside the fixed taxonomy.
func InvalidCategory(name string) *Error {
	return New(ErrCodeInvalidCategory, "unknown category %q", name)
}

// IneligibleAdvance reports a refused advance with the reason.
func IneligibleAdvance(format string, args ...any) *Error {
	return New(ErrCodeIneligibleAdvance, format, args...)
}
