package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType names the rule a field broke.
type ValidationErrorType string

const (
	ErrorTypeRequired         ValidationErrorType = "required"
	ErrorTypeInvalidFormat    ValidationErrorType = "invalid_format"
	ErrorTypeInvalidLength    ValidationErrorType = "invalid_length"
	ErrorTypeInvalidValue     ValidationErrorType = "invalid_value"
	ErrorTypeInvalidRange     ValidationErrorType = "invalid_range"
	ErrorTypeInvalidCharacter ValidationErrorType = "invalid_character"
)

type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   interface{}
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", fe.Field, fe.Message)
}

// ValidationError collects every rule a request broke so callers can report
// them together, per field.
type ValidationError struct {
	Errors []FieldError
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]FieldError, 0)}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation error"
	case 1:
		return ve.Errors[0].Error()
	}
	parts := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		parts[i] = ve.Errors[i].Error()
	}
	return "multiple validation errors: " + strings.Join(parts, "; ")
}

func IsValidationError(err error) bool {
	_, ok := AsValidationError(err)
	return ok
}

// AsValidationError finds a ValidationError anywhere in err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

func (ve *ValidationError) HasErrors() bool { return len(ve.Errors) > 0 }

// ErrOrNil lets validators end with `return ve.ErrOrNil()`.
func (ve *ValidationError) ErrOrNil() error {
	if !ve.HasErrors() {
		return nil
	}
	return ve
}

func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value interface{}) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Type: errorType, Message: message, Value: value})
}

func (ve *ValidationError) AddRequiredError(field string) {
	ve.AddError(field, ErrorTypeRequired, field+" is required", nil)
}

func (ve *ValidationError) AddInvalidFormatError(field string, value interface{}, expectedFormat string) {
	ve.AddError(field, ErrorTypeInvalidFormat,
		fmt.Sprintf("%s has invalid format, expected: %s", field, expectedFormat), value)
}

// AddInvalidLengthError records a length violation; a zero bound is open.
func (ve *ValidationError) AddInvalidLengthError(field string, value interface{}, min, max int) {
	var bound string
	switch {
	case min > 0 && max > 0:
		bound = fmt.Sprintf("must be between %d and %d characters long", min, max)
	case min > 0:
		bound = fmt.Sprintf("must be at least %d characters long", min)
	case max > 0:
		bound = fmt.Sprintf("must be at most %d characters long", max)
	default:
		bound = "has invalid length"
	}
	ve.AddError(field, ErrorTypeInvalidLength, field+" "+bound, value)
}

func (ve *ValidationError) AddInvalidValueError(field string, value interface{}, reason string) {
	ve.AddError(field, ErrorTypeInvalidValue, fmt.Sprintf("%s has invalid value: %s", field, reason), value)
}

func (ve *ValidationError) AddInvalidCharacterError(field string, value interface{}) {
	ve.AddError(field, ErrorTypeInvalidCharacter, field+" contains invalid characters", value)
}

// Merge folds in the field errors of other when it is a ValidationError.
func (ve *ValidationError) Merge(other error) {
	if o, ok := AsValidationError(other); ok {
		ve.Errors = append(ve.Errors, o.Errors...)
	}
}

// FieldMessages keys the first message recorded for each field by name.
func (ve *ValidationError) FieldMessages() map[string]string {
	out := make(map[string]string, len(ve.Errors))
	for _, fe := range ve.Errors {
		if _, seen := out[fe.Field]; !seen {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

func (ve *ValidationError) GetFieldErrors(field string) []FieldError {
	var out []FieldError
	for _, fe := range ve.Errors {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

// GetUserFriendlyMessage renders the errors for a person: the bare message
// for one error, a bulleted list for several.
func (ve *ValidationError) GetUserFriendlyMessage() string {
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Message
	}
	var b strings.Builder
	b.WriteString("Multiple validation errors occurred:")
	for _, fe := range ve.Errors {
		b.WriteString("\n- ")
		b.WriteString(fe.Message)
	}
	return b.String()
}
