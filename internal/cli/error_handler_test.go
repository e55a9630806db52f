package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "homebase/internal/errors"
	"homebase/internal/validation"
)

func TestErrorHandler_Handle(t *testing.T) {
	eh := NewErrorHandler()

	taskText := validation.NewValidationError()
	taskText.AddError("text", validation.ErrorTypeRequired, "Task text is required", nil)

	tests := []struct {
		name      string
		operation string
		err       error
		expected  string
	}{
		{
			name:      "field validation error",
			operation: "add task",
			err:       taskText,
			expected:  "failed to add task: Task text is required",
		},
		{
			name:      "wrapped field validation error",
			operation: "add task",
			err:       fmt.Errorf("service: %w", taskText),
			expected:  "failed to add task: Task text is required",
		},
		{
			name:      "not found",
			operation: "add to cart",
			err:       apperrors.NewNotFoundError("product", "p9"),
			expected:  "failed to add to cart: product not found: p9",
		},
		{
			name:      "database",
			operation: "list tasks",
			err:       apperrors.NewDatabaseError("list tasks", errors.New("disk I/O error")),
			expected:  "failed to list tasks: A database error occurred. Please try again.",
		},
		{
			name:      "door service down",
			operation: "trigger door",
			err:       apperrors.FromRemote("door service", errors.New("connection refused")),
			expected:  "failed to trigger door: door service is unavailable. Please try again later.",
		},
		{
			name:      "door service slow",
			operation: "trigger door",
			err:       apperrors.FromRemote("door service", context.DeadlineExceeded),
			expected:  "failed to trigger door: The operation timed out. Please try again.",
		},
		{
			name:      "plain error",
			operation: "save image",
			err:       errors.New("permission denied"),
			expected:  "failed to save image: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, eh.Handle(tt.operation, tt.err), tt.expected)
		})
	}
}

func TestErrorHandler_HandleSimple(t *testing.T) {
	eh := NewErrorHandler()

	multi := validation.NewValidationError()
	multi.AddError("name", validation.ErrorTypeRequired, "Please enter your name.", nil)
	multi.AddError("rating", validation.ErrorTypeInvalidRange, "Please provide a rating.", 0)

	assert.EqualError(t, eh.HandleSimple(multi),
		"Multiple validation errors occurred:\n- Please enter your name.\n- Please provide a rating.")
	assert.EqualError(t, eh.HandleSimple(apperrors.NewNotFoundError("task", "4")), "task not found: 4")

	plain := errors.New("boom")
	assert.Same(t, plain, eh.HandleSimple(plain))
}

func TestErrorHandler_Classification(t *testing.T) {
	eh := NewErrorHandler()

	assert.True(t, eh.IsValidationError(apperrors.NewValidationError("bad", nil)))
	assert.True(t, eh.IsValidationError(&validation.ValidationError{
		Errors: []validation.FieldError{{Field: "amount", Message: "Amount must be a positive number"}},
	}))
	assert.False(t, eh.IsValidationError(errors.New("bad")))

	assert.True(t, eh.IsNotFoundError(apperrors.NewNotFoundError("task", "1")))
	assert.False(t, eh.IsNotFoundError(apperrors.NewValidationError("bad", nil)))

	assert.True(t, eh.IsUnavailableError(apperrors.NewUnavailableError("door service", nil)))
	assert.True(t, eh.IsUnavailableError(apperrors.NewTimeoutError("door service", nil)))
	assert.False(t, eh.IsUnavailableError(errors.New("bad")))

	assert.Equal(t, "VALIDATION_FAILED", eh.GetErrorCode(apperrors.NewValidationError("bad", nil)))
	assert.Equal(t, "SERVICE_UNAVAILABLE", eh.GetErrorCode(apperrors.NewUnavailableError("door service", nil)))
	assert.Equal(t, "UNKNOWN_ERROR", eh.GetErrorCode(errors.New("bad")))
}
