package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context, preserving the code of an
// already-classified error
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	code := CodeInternalError
	var appErr *AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// HasCode reports whether err carries the given error code
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode returns the error code if it's an AppError, otherwise "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeDataUnavailable = "DATA_UNAVAILABLE"
	CodeFileNotFound    = "FILE_NOT_FOUND"
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeInternalError   = "INTERNAL_ERROR"
)

// DataUnavailable marks a commute data source that exists but cannot be read
// or parsed; callers render an empty chart instead of failing the page.
func DataUnavailable(message string, cause error) *AppError {
	return &AppError{Code: CodeDataUnavailable, Message: message, Cause: cause}
}

// FileNotFound marks a referenced itinerary file that does not exist.
func FileNotFound(path string) *AppError {
	return New(CodeFileNotFound, fmt.Sprintf("data file not found: %s", path))
}

func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

// ConfigError classifies a config loading failure, keeping the cause.
func ConfigError(message string, cause error) *AppError {
	return &AppError{Code: CodeConfigInvalid, Message: message, Cause: cause}
}

func Unauthorized(message string) *AppError {
	return New(CodeUnauthorized, message)
}
