package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskValidator_ValidateTaskText(t *testing.T) {
	validator := NewTaskValidator(nil)

	tests := []struct {
		name      string
		input     string
		errorType ValidationErrorType
	}{
		{"valid text", "Buy milk", ""},
		{"unicode", "Café ☕ with Zoë", ""},
		{"empty", "", ErrorTypeRequired},
		{"whitespace only", "   ", ErrorTypeRequired},
		{"too long", strings.Repeat("a", 501), ErrorTypeInvalidLength},
		{"longest allowed", strings.Repeat("a", 500), ""},
		{"embedded newline", "line one\nline two", ErrorTypeInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateTaskText(tt.input)
			if tt.errorType == "" {
				assert.NoError(t, err)
				return
			}

			ve, ok := AsValidationError(err)
			require.True(t, ok)
			require.NotEmpty(t, ve.Errors)
			assert.Equal(t, tt.errorType, ve.Errors[0].Type)
			assert.Equal(t, "text", ve.Errors[0].Field)
		})
	}
}

func TestTaskValidator_EmptyTextMessage(t *testing.T) {
	err := NewTaskValidator(nil).ValidateTaskText(" ")
	ve, _ := AsValidationError(err)
	assert.Equal(t, "Task text is required", ve.GetUserFriendlyMessage())
}

func TestTaskValidator_ParseDueDate(t *testing.T) {
	validator := NewTaskValidator(nil)

	due, err := validator.ParseDueDate("")
	assert.NoError(t, err)
	assert.Nil(t, due)

	due, err = validator.ParseDueDate("2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-31", due.String())

	_, err = validator.ParseDueDate("31/01/2024")
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "due", ve.Errors[0].Field)
	assert.Equal(t, ErrorTypeInvalidFormat, ve.Errors[0].Type)
}

func TestTaskValidator_ValidateTaskForCreation(t *testing.T) {
	validator := NewTaskValidator(nil)

	text, due, err := validator.ValidateTaskForCreation("  Pay rent ", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "Pay rent", text)
	assert.Equal(t, "2024-01-01", due.String())

	_, _, err = validator.ValidateTaskForCreation("", "soon")
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Len(t, ve.Errors, 2, "both fields are reported")
}

func TestTaskValidator_ValidateTaskID(t *testing.T) {
	validator := NewTaskValidator(nil)
	assert.NoError(t, validator.ValidateTaskID(3))
	assert.Error(t, validator.ValidateTaskID(0))
	assert.Error(t, validator.ValidateTaskID(-1))
}
