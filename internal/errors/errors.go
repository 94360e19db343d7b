// Package errors provides structured error types for fsdash.
//nolint:revive // var-naming: Package name is intentional for error type organization
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeUnknown is for unknown errors
	ErrorTypeUnknown ErrorType = "unknown"

	// ErrorTypeValidation is for invalid input or configuration values
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNetwork is for transport failures reaching a backend
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeStatus is for non-success HTTP responses
	ErrorTypeStatus ErrorType = "status"

	// ErrorTypeDecode is for malformed response payloads
	ErrorTypeDecode ErrorType = "decode"

	// ErrorTypeConfiguration is for configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"

	// ErrorTypeExport is for history and chart export failures
	ErrorTypeExport ErrorType = "export"

	// ErrorTypeInternal is for everything else
	ErrorTypeInternal ErrorType = "internal"
)

// FsdError represents a structured error with additional context
type FsdError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *FsdError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *FsdError) Unwrap() error {
	return e.Cause
}

// Is matches another FsdError by type, otherwise defers to the cause
func (e *FsdError) Is(target error) bool {
	if target == nil {
		return false
	}

	var targetErr *FsdError
	if errors.As(target, &targetErr) {
		return e.Type == targetErr.Type
	}

	return errors.Is(e.Cause, target)
}

// WithContext adds context to the error
func (e *FsdError) WithContext(key string, value interface{}) *FsdError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new FsdError
func New(errType ErrorType, message string) *FsdError {
	return &FsdError{Type: errType, Message: message}
}

// Newf creates a new FsdError with formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *FsdError {
	return New(errType, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. A nil err yields nil.
func Wrap(err error, errType ErrorType, message string) *FsdError {
	if err == nil {
		return nil
	}

	wrapped := &FsdError{Type: errType, Message: message, Cause: err}

	var inner *FsdError
	if errors.As(err, &inner) && inner.Context != nil {
		for k, v := range inner.Context {
			wrapped.WithContext(k, v)
		}
	}
	return wrapped
}

// Wrapf wraps an existing error with formatted message
func Wrapf(err error, errType ErrorType, format string, args ...interface{}) *FsdError {
	if err == nil {
		return nil
	}
	return Wrap(err, errType, fmt.Sprintf(format, args...))
}

// IsType checks if an error is of a specific type
func IsType(err error, errType ErrorType) bool {
	var fsdErr *FsdError
	if errors.As(err, &fsdErr) {
		return fsdErr.Type == errType
	}
	return false
}

// GetType returns the error type
func GetType(err error) ErrorType {
	var fsdErr *FsdError
	if errors.As(err, &fsdErr) {
		return fsdErr.Type
	}
	return ErrorTypeUnknown
}

// GetContext returns the error context
func GetContext(err error) map[string]interface{} {
	var fsdErr *FsdError
	if errors.As(err, &fsdErr) {
		return fsdErr.Context
	}
	return nil
}

// Invalid creates a validation error
func Invalid(field, reason string) *FsdError {
	err := Newf(ErrorTypeValidation, "invalid %s: %s", field, reason)
	return err.WithContext("field", field)
}

// Configf creates a configuration error with formatted message
func Configf(format string, args ...interface{}) *FsdError {
	return Newf(ErrorTypeConfiguration, format, args...)
}

// ConfigLoad wraps a configuration loading error
func ConfigLoad(path string, err error) *FsdError {
	wrapped := Wrapf(err, ErrorTypeConfiguration, "failed to load configuration from %s", path)
	return wrapped.WithContext("config_path", path)
}

// Request wraps a transport failure for an endpoint
func Request(endpoint string, err error) *FsdError {
	wrapped := Wrapf(err, ErrorTypeNetwork, "request to %s failed", endpoint)
	return wrapped.WithContext("endpoint", endpoint)
}

// Status reports a non-success HTTP status from an endpoint
func Status(endpoint string, code int, body string) *FsdError {
	err := Newf(ErrorTypeStatus, "%s returned status %d", endpoint, code)
	err.WithContext("endpoint", endpoint).WithContext("status", code)
	if body != "" {
		err.WithContext("body", body)
	}
	return err
}

// Decode wraps a malformed payload error for an endpoint
func Decode(endpoint string, err error) *FsdError {
	wrapped := Wrapf(err, ErrorTypeDecode, "malformed response from %s", endpoint)
	return wrapped.WithContext("endpoint", endpoint)
}

// Export wraps an export failure for a format
func Export(format string, err error) *FsdError {
	wrapped := Wrapf(err, ErrorTypeExport, "export as %s failed", format)
	return wrapped.WithContext("format", format)
}
