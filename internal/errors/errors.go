package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig  = "CONFIG"
	ErrUsage   = "USAGE"
	ErrAlias   = "ALIAS"
	ErrSSH     = "SSH"
	ErrSync    = "SYNC"
	ErrShip    = "SHIP"
	ErrExec    = "EXEC"
	ErrPartial = "PARTIAL"
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error

	// Status is the exit status to report for this error. Zero means 1.
	Status int
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Usage creates an operator error that is reported before any remote action runs.
func Usage(message, suggestion string) *Error {
	return New(ErrUsage, message, suggestion)
}

// Wrap wraps an existing error with a message, defaulting to ErrExec code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrExec,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// WithStatus sets the process exit status carried by the error.
func (e *Error) WithStatus(status int) *Error {
	e.Status = status
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var wpxErr *Error
	if errors.As(err, &wpxErr) {
		return wpxErr.Code == code
	}
	return false
}

// ExitCode returns the process exit status for err: 0 for nil, the carried
// status for structured errors that set one, and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var wpxErr *Error
	if errors.As(err, &wpxErr) && wpxErr.Status > 0 {
		return wpxErr.Status
	}
	return 1
}
