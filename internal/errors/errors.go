// Package errors holds the categorized errors shared by storage, services,
// the door client and both front ends.
package errors

import (
	"context"
	"errors"
	"fmt"
)

func newError(t ErrorType, message string, cause error, kv ...interface{}) *AppError {
	e := &AppError{
		Type:    t,
		Message: message,
		Code:    kinds[t].code,
		Cause:   cause,
		Context: make(map[string]interface{}, len(kv)/2),
	}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Context[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return e
}

// NewValidationError reports input that breaks a domain rule.
func NewValidationError(message string, cause error) *AppError {
	return newError(ErrorTypeValidation, message, cause)
}

func NewNotFoundError(resource string, identifier string) *AppError {
	return newError(ErrorTypeNotFound, fmt.Sprintf("%s not found: %s", resource, identifier), nil,
		"resource", resource, "identifier", identifier)
}

func NewDatabaseError(operation string, cause error) *AppError {
	return newError(ErrorTypeDatabase, fmt.Sprintf("database operation failed: %s", operation), cause,
		"operation", operation)
}

// NewInvalidInputError reports a malformed argument, such as a non-numeric id.
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return newError(ErrorTypeInvalidInput, fmt.Sprintf("invalid input for %s: %s", field, reason), nil,
		"field", field, "value", value, "reason", reason)
}

func NewTimeoutError(operation string, cause error) *AppError {
	return newError(ErrorTypeTimeout, fmt.Sprintf("operation timed out: %s", operation), cause,
		"operation", operation)
}

// NewUnavailableError reports a remote service that could not be reached.
func NewUnavailableError(service string, cause error) *AppError {
	return newError(ErrorTypeUnavailable, fmt.Sprintf("%s is unavailable", service), cause,
		"service", service)
}

// FromRemote classifies a transport failure: deadline errors become timeouts,
// everything else marks the service unavailable.
func FromRemote(service string, err error) *AppError {
	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(service, err)
	}
	return NewUnavailableError(service, err)
}

// WrapError wraps err under a type. Its code is the type name.
func WrapError(err error, errorType ErrorType, message string) *AppError {
	e := newError(errorType, message, err)
	e.Code = errorType.String()
	return e
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

// GetUserMessage returns text fit to show a person. Internal failures are
// replaced by a generic retry hint.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	switch appErr.Type {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput:
		return appErr.Message
	case ErrorTypeDatabase:
		return "A database error occurred. Please try again."
	case ErrorTypeTimeout:
		return "The operation timed out. Please try again."
	case ErrorTypeUnavailable:
		return appErr.Message + ". Please try again later."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// HTTPStatus maps err to a response status; non-AppErrors are 500.
func HTTPStatus(err error) int {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Type.HTTPStatus()
	}
	return kinds[ErrorTypeDatabase].status
}

// ShouldLogError is false for mistakes the caller made.
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return !kinds[appErr.Type].user
	}
	return true
}
