package errors

import (
	"fmt"
)

// ErrorCode represents a specific error type for memory engine operations.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates no resolvable identity.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden indicates the identity does not own the target resource.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeNotFound indicates the requested memory or record does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeSourceUnavailable indicates a record source failed to respond.
	ErrCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
	// ErrCodeStorageError indicates a storage write failed, e.g. a supersession conflict.
	ErrCodeStorageError ErrorCode = "STORAGE_ERROR"
)

// EngineError represents a structured error for memory engine operations.
type EngineError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *EngineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Convenience constructors for common error types.

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *EngineError {
	return &EngineError{Code: ErrCodeUnauthorized, Message: msg}
}

// Forbidden creates a forbidden error. The message is intentionally the same
// as NotFound for the same resource kind, so existence is never leaked.
func Forbidden(resource string) *EngineError {
	return &EngineError{Code: ErrCodeForbidden, Message: fmt.Sprintf("%s not found", resource)}
}

// NotFound creates a not found error.
func NotFound(resource string) *EngineError {
	return &EngineError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *EngineError {
	return &EngineError{Code: ErrCodeInvalidArgument, Message: msg}
}

// SourceUnavailable creates a source unavailable error.
func SourceUnavailable(category string, cause error) *EngineError {
	return &EngineError{
		Code:    ErrCodeSourceUnavailable,
		Message: fmt.Sprintf("record source unavailable: %s", category),
		Cause:   cause,
	}
}

// StorageError creates a storage error.
func StorageError(msg string, cause error) *EngineError {
	return &EngineError{Code: ErrCodeStorageError, Message: msg, Cause: cause}
}

// IsCode checks if an error is of a specific code.
func IsCode(err error, code ErrorCode) bool {
	if engineErr, ok := err.(*EngineError); ok {
		return engineErr.Code == code
	}
	return false
}

// GetCodeFromError extracts the error code from any error.
// Returns the provided default code if the error is not an EngineError.
func GetCodeFromError(err error, defaultCode ErrorCode) ErrorCode {
	if engineErr, ok := err.(*EngineError); ok {
		return engineErr.Code
	}
	return defaultCode
}
