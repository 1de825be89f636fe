// Package errors provides typed errors for the application
package errors

import "errors"

// ErrorType represents the type of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeExternal
	ErrorTypeTooLarge
	ErrorTypeInternal
)

// String returns a short label suitable for metrics and logs
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeExternal:
		return "external"
	case ErrorTypeTooLarge:
		return "too_large"
	default:
		return "internal"
	}
}

// TypedError is implemented by every error constructed in this package
type TypedError interface {
	error
	Type() ErrorType
}

// baseError is the base implementation for all error types
type baseError struct {
	msg string
	typ ErrorType
}

func (e *baseError) Error() string {
	return e.msg
}

// Type returns the error type
func (e *baseError) Type() ErrorType {
	return e.typ
}

// ValidationError represents bad user input (unknown platform, unknown action)
type ValidationError struct {
	baseError
}

// NewValidationError creates a new ValidationError
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{baseError{msg: msg, typ: ErrorTypeValidation}}
}

// NotFoundError represents a missing resource
type NotFoundError struct {
	baseError
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(msg string) *NotFoundError {
	return &NotFoundError{baseError{msg: msg, typ: ErrorTypeNotFound}}
}

// ExternalError represents a failure of an external collaborator (extractor, transport)
type ExternalError struct {
	baseError
}

// NewExternalError creates a new ExternalError
func NewExternalError(msg string) *ExternalError {
	return &ExternalError{baseError{msg: msg, typ: ErrorTypeExternal}}
}

// TooLargeError represents a payload rejected by a size policy
type TooLargeError struct {
	baseError
}

// NewTooLargeError creates a new TooLargeError
func NewTooLargeError(msg string) *TooLargeError {
	return &TooLargeError{baseError{msg: msg, typ: ErrorTypeTooLarge}}
}

// InternalError represents an internal error
type InternalError struct {
	baseError
}

// NewInternalError creates a new InternalError
func NewInternalError(msg string) *InternalError {
	return &InternalError{baseError{msg: msg, typ: ErrorTypeInternal}}
}

// TypeOf returns the type of the first typed error in err's chain.
// Untyped errors are reported as internal.
func TypeOf(err error) ErrorType {
	var typed TypedError
	if errors.As(err, &typed) {
		return typed.Type()
	}
	return ErrorTypeInternal
}

// IsValidationError checks if err wraps a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsNotFoundError checks if err wraps a NotFoundError
func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsExternalError checks if err wraps an ExternalError
func IsExternalError(err error) bool {
	var target *ExternalError
	return errors.As(err, &target)
}

// IsTooLargeError checks if err wraps a TooLargeError
func IsTooLargeError(err error) bool {
	var target *TooLargeError
	return errors.As(err, &target)
}

// IsInternalError checks if err wraps an InternalError
func IsInternalError(err error) bool {
	var target *InternalError
	return errors.As(err, &target)
}
