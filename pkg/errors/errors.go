package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"

	// Command errors
	ErrCommandBuild  ErrorCode = "COMMAND_BUILD"
	ErrPathViolation ErrorCode = "PATH_VIOLATION"

	// Execution errors
	ErrExecution  ErrorCode = "EXECUTION"
	ErrConstraint ErrorCode = "CONSTRAINT"

	// Repository errors
	ErrGitStatus ErrorCode = "GIT_STATUS"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileRead     ErrorCode = "FILE_READ"
	ErrFileWrite    ErrorCode = "FILE_WRITE"

	// Answers file errors
	ErrAnswersParse ErrorCode = "ANSWERS_PARSE"
)

// ScaffupError represents a structured error with code and details
type ScaffupError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ScaffupError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ScaffupError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ScaffupError) Is(target error) bool {
	var targetErr *ScaffupError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ScaffupError with the given code and message
func New(code ErrorCode, message string) *ScaffupError {
	return &ScaffupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ScaffupError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ScaffupError {
	return &ScaffupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ScaffupError
func Wrap(err error, code ErrorCode, message string) *ScaffupError {
	if err == nil {
		return nil
	}
	return &ScaffupError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ScaffupError {
	if err == nil {
		return nil
	}
	return &ScaffupError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ScaffupError) WithDetail(key string, value interface{}) *ScaffupError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var scaffupErr *ScaffupError
	if errors.As(err, &scaffupErr) {
		return scaffupErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ScaffupError
func GetErrorCode(err error) ErrorCode {
	var scaffupErr *ScaffupError
	if errors.As(err, &scaffupErr) {
		return scaffupErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ScaffupError
func GetErrorDetails(err error) map[string]interface{} {
	var scaffupErr *ScaffupError
	if errors.As(err, &scaffupErr) {
		return scaffupErr.Details
	}
	return nil
}

// Diagnostic returns the human-facing message of err without the code
// prefix. For a ScaffupError this is its Message, so diagnostics taken from
// external tools pass through verbatim.
func Diagnostic(err error) string {
	if err == nil {
		return ""
	}
	var scaffupErr *ScaffupError
	if errors.As(err, &scaffupErr) {
		return scaffupErr.Message
	}
	return err.Error()
}
