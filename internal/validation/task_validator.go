package validation

import (
	"strings"

	"homebase/internal/domain"
)

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator(v *Validator) *TaskValidator {
	if v == nil {
		v = NewValidator()
	}
	return &TaskValidator{validator: v}
}

// ValidateTaskText validates the text of a task for creation or update
func (tv *TaskValidator) ValidateTaskText(text string) error {
	validationError := NewValidationError()

	trimmed := tv.validator.TrimAndValidateString(text)
	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddError("text", ErrorTypeRequired, "Task text is required", nil)
		return validationError
	}

	minLen, maxLen := tv.validator.taskTextMinLength(), tv.validator.taskTextMaxLength()
	if !tv.validator.IsValidStringLength(trimmed, minLen, maxLen) {
		validationError.AddInvalidLengthError("text", trimmed, minLen, maxLen)
	}
	if tv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("text", trimmed)
	}

	return validationError.ErrOrNil()
}

// ParseDueDate parses an optional due date. An empty string means no due date.
func (tv *TaskValidator) ParseDueDate(value string) (*domain.Date, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(value)
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError("due", value, "YYYY-MM-DD")
		return nil, validationError
	}
	return &d, nil
}

// ValidateTaskForCreation validates text and due date together, reporting every problem
func (tv *TaskValidator) ValidateTaskForCreation(text, due string) (string, *domain.Date, error) {
	validationError := NewValidationError()

	validationError.Merge(tv.ValidateTaskText(text))
	date, dueErr := tv.ParseDueDate(due)
	validationError.Merge(dueErr)

	if err := validationError.ErrOrNil(); err != nil {
		return "", nil, err
	}
	return tv.validator.TrimAndValidateString(text), date, nil
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	if !tv.validator.IsValidTaskID(id) {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("id", id, "must be a positive integer")
		return validationError
	}
	return nil
}
