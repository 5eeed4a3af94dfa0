package validation

import (
	"fmt"
	"strings"
	"testing"

	apperrors "indicator-toggl/internal/errors"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		errors   []FieldError
		contains string
	}{
		{"No errors", []FieldError{}, "validation error"},
		{"Single error", []FieldError{{Field: "description", Message: "is required"}}, "validation error for field 'description': is required"},
		{"Multiple errors", []FieldError{
			{Field: "description", Message: "is required"},
			{Field: "stop", Message: "is before start"},
		}, "multiple validation errors"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := &ValidationError{Errors: tt.errors}
			if result := ve.Error(); !strings.Contains(result, tt.contains) {
				t.Errorf("ValidationError.Error() = %v, expected to contain %v", result, tt.contains)
			}
		})
	}
}

func TestValidationError_AddHelpers(t *testing.T) {
	tests := []struct {
		name         string
		add          func(ve *ValidationError)
		expectedType ValidationErrorType
		contains     string
	}{
		{"required", func(ve *ValidationError) { ve.AddRequiredError("start") }, ErrorTypeRequired, "start is required"},
		{"length", func(ve *ValidationError) { ve.AddInvalidLengthError("description", "", 10) }, ErrorTypeInvalidLength, "at most 10"},
		{"value", func(ve *ValidationError) { ve.AddInvalidValueError("id", -1, "must be positive") }, ErrorTypeInvalidValue, "must be positive"},
		{"range", func(ve *ValidationError) { ve.AddInvalidRangeError("stop", nil, "stop is before start") }, ErrorTypeInvalidRange, "stop is before start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ve := NewValidationError()
			tt.add(ve)

			if len(ve.Errors) != 1 {
				t.Fatalf("Expected 1 error, got %d", len(ve.Errors))
			}
			if ve.Errors[0].Type != tt.expectedType {
				t.Errorf("Expected error type %v, got %v", tt.expectedType, ve.Errors[0].Type)
			}
			if !strings.Contains(ve.Errors[0].Message, tt.contains) {
				t.Errorf("Expected message to contain %q, got %s", tt.contains, ve.Errors[0].Message)
			}
		})
	}
}

func TestValidationError_GetUserFriendlyMessage(t *testing.T) {
	ve := &ValidationError{}
	if msg := ve.GetUserFriendlyMessage(); msg != "Input validation failed" {
		t.Errorf("GetUserFriendlyMessage() = %v", msg)
	}

	ve.AddInvalidRangeError("stop", nil, "stop is before start")
	if msg := ve.GetUserFriendlyMessage(); msg != "stop has invalid range: stop is before start" {
		t.Errorf("GetUserFriendlyMessage() = %v", msg)
	}

	ve.AddRequiredError("start")
	expected := "Multiple validation errors occurred:\n- stop has invalid range: stop is before start\n- start is required"
	if msg := ve.GetUserFriendlyMessage(); msg != expected {
		t.Errorf("GetUserFriendlyMessage() = %q", msg)
	}
}

func TestValidationError_OrNil(t *testing.T) {
	if err := NewValidationError().OrNil(); err != nil {
		t.Errorf("OrNil() = %v, expected nil", err)
	}

	ve := NewValidationError()
	ve.AddRequiredError("start")
	if err := ve.OrNil(); err == nil {
		t.Error("OrNil() = nil, expected the validation error")
	}
}

func TestIsValidationError(t *testing.T) {
	ve := NewValidationError()
	ve.AddRequiredError("start")

	if !IsValidationError(ve) {
		t.Errorf("IsValidationError() = false, expected true for ValidationError")
	}
	if !IsValidationError(fmt.Errorf("wrapped: %w", ve)) {
		t.Errorf("IsValidationError() = false, expected true for wrapped ValidationError")
	}
	if IsValidationError(&FieldError{Field: "test", Message: "error"}) {
		t.Errorf("IsValidationError() = true, expected false for regular error")
	}
}

func TestToAppError(t *testing.T) {
	ve := NewValidationError()
	ve.AddInvalidRangeError("stop", nil, "stop is before start")

	err := ToAppError(ve)
	if !apperrors.IsErrorType(err, apperrors.ErrorTypeValidation) {
		t.Fatalf("ToAppError() = %v, expected validation AppError", err)
	}
	if msg := apperrors.GetUserMessage(err); !strings.Contains(msg, "stop is before start") {
		t.Errorf("GetUserMessage() = %v", msg)
	}
	if !IsValidationError(err) {
		t.Error("expected the field errors to stay reachable through Unwrap")
	}

	plain := fmt.Errorf("boom")
	if ToAppError(plain) != plain {
		t.Error("ToAppError() should pass through other errors")
	}
	if ToAppError(nil) != nil {
		t.Error("ToAppError(nil) should be nil")
	}
}
