package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Codes used by the remote error constructors.
const (
	CodeRemoteAuth     = "REMOTE_AUTH"
	CodeRemoteNotFound = "REMOTE_NOT_FOUND"
	CodeRemoteStatus   = "REMOTE_STATUS"
	CodeRemoteNetwork  = "REMOTE_NETWORK"
)

// NewParseError creates an error for malformed date, time or duration input
func NewParseError(field string, value string, expected string) *AppError {
	return &AppError{
		Type:    ErrorTypeParse,
		Message: fmt.Sprintf("cannot parse %s %q, expected %s", field, value, expected),
		Code:    "PARSE_FAILED",
		Context: map[string]interface{}{
			"field":    field,
			"value":    value,
			"expected": expected,
		},
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewUnknownProjectError is returned when a @project token does not resolve.
func NewUnknownProjectError(name string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: fmt.Sprintf("project not found: %s", name),
		Code:    "UNKNOWN_PROJECT",
		Context: map[string]interface{}{
			"project": name,
		},
	}
}

// NewUsageError creates an error for a missing or surplus command argument
func NewUsageError(command string, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeUsage,
		Message: fmt.Sprintf("%s: %s", command, reason),
		Code:    "USAGE",
		Context: map[string]interface{}{
			"command": command,
			"reason":  reason,
		},
	}
}

// NewRemoteError creates an error for a failed call to the time-tracking service.
// The status decides the code: 401/403 are auth failures, 404 is not-found.
func NewRemoteError(operation string, status int, body string) *AppError {
	code := CodeRemoteStatus
	message := fmt.Sprintf("%s failed with status %d", operation, status)
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		code = CodeRemoteAuth
		message = fmt.Sprintf("%s rejected: check your API token", operation)
	case http.StatusNotFound:
		code = CodeRemoteNotFound
		message = fmt.Sprintf("%s: not found", operation)
	}
	if body != "" && code == CodeRemoteStatus {
		message = fmt.Sprintf("%s: %s", message, body)
	}
	return &AppError{
		Type:    ErrorTypeRemote,
		Message: message,
		Code:    code,
		Context: map[string]interface{}{
			"operation": operation,
			"status":    status,
		},
	}
}

// NewEntryNotFoundError reports a time entry id the service does not know
func NewEntryNotFoundError(id int64, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeRemote,
		Message: fmt.Sprintf("time entry %d does not exist", id),
		Code:    CodeRemoteNotFound,
		Cause:   cause,
		Context: map[string]interface{}{
			"id": id,
		},
	}
}

// NewNetworkError wraps a transport failure such as an unreachable host
func NewNetworkError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeRemote,
		Message: fmt.Sprintf("%s: service unreachable", operation),
		Code:    CodeRemoteNetwork,
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewConsistencyError reports remote state that breaks an expected invariant
func NewConsistencyError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeConsistency,
		Message: message,
		Code:    "INCONSISTENT_STATE",
		Context: make(map[string]interface{}),
	}
}

// NewDatabaseError creates a new database error
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewTimeoutError creates a new timeout error
func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return &AppError{
		Type:    ErrorTypeTimeout,
		Message: fmt.Sprintf("operation timed out: %s", operation),
		Code:    "TIMEOUT",
		Context: map[string]interface{}{
			"operation": operation,
			"timeout":   timeout,
		},
	}
}

// WrapError wraps an existing error with additional context
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    errorType.String(),
		Cause:   err,
		Context: make(map[string]interface{}),
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// IsNotFound reports whether the service answered 404 for the request
func IsNotFound(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type == ErrorTypeRemote && appErr.Code == CodeRemoteNotFound
	}
	return false
}

// GetUserMessage returns a user-friendly error message
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeParse, ErrorTypeValidation, ErrorTypeUsage, ErrorTypeConsistency:
			return appErr.Message
		case ErrorTypeRemote:
			if appErr.Code == CodeRemoteNetwork && appErr.Cause != nil {
				return fmt.Sprintf("%s (%v)", appErr.Message, appErr.Cause)
			}
			return appErr.Message
		case ErrorTypeDatabase:
			return "The local cache could not be read or written."
		case ErrorTypeTimeout:
			return "The operation timed out. Please try again."
		default:
			return "An unexpected error occurred. Please try again."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError determines if an error should be logged based on its type
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeParse, ErrorTypeValidation, ErrorTypeUsage:
			return false // user errors
		default:
			return true
		}
	}
	return true
}

// IsUsageClass reports whether the error should be answered with command help.
func IsUsageClass(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeParse, ErrorTypeValidation, ErrorTypeUsage:
			return true
		}
	}
	return false
}
