// Package clierr defines structured error types for CLI commands.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error code constants: uppercase, underscore-separated, stable across minor versions.
const (
	LeadNotFound       = "LEAD_NOT_FOUND"
	ColumnNotFound     = "COLUMN_NOT_FOUND"
	BoardNotFound      = "BOARD_NOT_FOUND"
	BoardAlreadyExists = "BOARD_ALREADY_EXISTS"
	InvalidInput       = "INVALID_INPUT"
	InvalidLeadID      = "INVALID_LEAD_ID"
	InvalidTable       = "INVALID_TABLE"
	LastColumn         = "LAST_COLUMN"
	NoChanges          = "NO_CHANGES"
	ConfirmationReq    = "CONFIRMATION_REQUIRED"
	StorageError       = "STORAGE_ERROR"
	RemoteError        = "REMOTE_ERROR"
	InvalidGroupBy     = "INVALID_GROUP_BY"
	InternalError      = "INTERNAL_ERROR"
)

// Error represents a structured CLI error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error that keeps err as its cause so errors.Is still matches.
func Wrap(code string, err error) *Error {
	return &Error{Code: code, Message: err.Error(), cause: err}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// CodeOf returns the code of the first *Error in err's chain, or InternalError.
func CodeOf(err error) string {
	var cliErr *Error
	if errors.As(err, &cliErr) {
		return cliErr.Code
	}
	return InternalError
}

// SilentError signals an exit code without additional output.
// Used by batch operations where results are already written to stdout.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
