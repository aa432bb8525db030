// Package errors defines the structured error types used by the risk pipeline.
// The taxonomy is deliberately small: configuration problems detected before
// any data is touched, and upstream I/O failures that abort the run.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies an AppError.
type ErrorCode string

const (
	// CodeConfiguration marks missing or invalid connection parameters.
	// These errors surface before the pipeline reads any data.
	CodeConfiguration ErrorCode = "configuration_error"

	// CodeUpstreamIO marks a failed call to the record store, snapshot
	// store, or audit sink. Any such failure aborts the remainder of the run.
	CodeUpstreamIO ErrorCode = "upstream_io_error"

	// CodeInternal marks unexpected internal failures.
	CodeInternal ErrorCode = "internal_error"
)

// AppError is a structured application error carrying a code, a message,
// and an optional cause for error-chain support.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is / errors.As support.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause attaches a cause error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewConfigurationError creates a configuration_error.
func NewConfigurationError(message string) *AppError {
	return New(CodeConfiguration, message)
}

// NewUpstreamIOError wraps a failed external call as an upstream_io_error.
func NewUpstreamIOError(message string, cause error) *AppError {
	return New(CodeUpstreamIO, message).WithCause(cause)
}

// NewInternalError wraps an unexpected failure as an internal_error.
func NewInternalError(message string, cause error) *AppError {
	return New(CodeInternal, message).WithCause(cause)
}

// CodeOf extracts the ErrorCode from an error chain. Errors outside the
// AppError taxonomy report CodeInternal.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool {
	return CodeOf(err) == CodeConfiguration
}

// IsUpstreamIO reports whether err is an upstream I/O error.
func IsUpstreamIO(err error) bool {
	return CodeOf(err) == CodeUpstreamIO
}
