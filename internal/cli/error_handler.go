package cli

import (
	stderrors "errors"
	"fmt"

	"indicator-toggl/internal/errors"
	"indicator-toggl/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// CommandError carries the failed operation next to the original error,
// which stays reachable through errors.As
type CommandError struct {
	Operation string
	Err       error
}

func (e *CommandError) Error() string {
	if e.Operation == "" {
		return userMessage(e.Err)
	}
	return fmt.Sprintf("failed to %s: %s", e.Operation, userMessage(e.Err))
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &CommandError{Operation: operation, Err: err}
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*CommandError); ok {
		return err
	}
	return &CommandError{Err: err}
}

// IsUsageError reports whether the command help should be shown with the error
func (eh *ErrorHandler) IsUsageError(err error) bool {
	return errors.IsUsageClass(err) || validation.IsValidationError(err)
}

// IsRemoteError checks if the service rejected or could not be reached
func (eh *ErrorHandler) IsRemoteError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeRemote) || errors.IsErrorType(err, errors.ErrorTypeTimeout)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}

func userMessage(err error) string {
	if errors.IsAppError(err) {
		return errors.GetUserMessage(err)
	}
	var ve *validation.ValidationError
	if stderrors.As(err, &ve) {
		return ve.GetUserFriendlyMessage()
	}
	return err.Error()
}
