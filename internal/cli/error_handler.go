package cli

import (
	stderrors "errors"
	"fmt"

	"homebase/internal/errors"
	"homebase/internal/validation"
)

// ErrorHandler turns service errors into the text a command prints.
type ErrorHandler struct{}

func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// describe returns the user-facing text for known error kinds. ok is false
// for errors that carry no category and should be shown as they are.
func describe(err error) (msg string, ok bool) {
	if ve, isVE := validation.AsValidationError(err); isVE {
		return ve.GetUserFriendlyMessage(), true
	}
	if errors.IsAppError(err) {
		return errors.GetUserMessage(err), true
	}
	return "", false
}

// Handle prefixes the message with the failed operation, as in
// "failed to add task: Task text is required".
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if msg, ok := describe(err); ok {
		return fmt.Errorf("failed to %s: %s", operation, msg)
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple is Handle without the operation prefix. Uncategorized
// errors are returned unchanged.
func (eh *ErrorHandler) HandleSimple(err error) error {
	if msg, ok := describe(err); ok {
		return stderrors.New(msg)
	}
	return err
}

func (eh *ErrorHandler) IsValidationError(err error) bool {
	return validation.IsValidationError(err) || errors.IsErrorType(err, errors.ErrorTypeValidation)
}

func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsUnavailableError covers both an unreachable and a slow door service.
func (eh *ErrorHandler) IsUnavailableError(err error) bool {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return false
	}
	return appErr.IsType(errors.ErrorTypeUnavailable) || appErr.IsType(errors.ErrorTypeTimeout)
}

func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
