package errors

import (
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeDatabase
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypeUnavailable
)

// kind describes how one error type is named, coded and surfaced.
type kind struct {
	name   string
	code   string
	status int
	// user marks mistakes the caller can fix; those are not logged.
	user bool
}

var kinds = map[ErrorType]kind{
	ErrorTypeValidation:   {name: "validation", code: "VALIDATION_FAILED", status: http.StatusUnprocessableEntity, user: true},
	ErrorTypeNotFound:     {name: "not_found", code: "NOT_FOUND", status: http.StatusNotFound, user: true},
	ErrorTypeDatabase:     {name: "database", code: "DATABASE_ERROR", status: http.StatusInternalServerError},
	ErrorTypeInvalidInput: {name: "invalid_input", code: "INVALID_INPUT", status: http.StatusBadRequest, user: true},
	ErrorTypeTimeout:      {name: "timeout", code: "TIMEOUT", status: http.StatusGatewayTimeout},
	ErrorTypeUnavailable:  {name: "unavailable", code: "SERVICE_UNAVAILABLE", status: http.StatusBadGateway},
}

func (et ErrorType) String() string {
	if k, ok := kinds[et]; ok {
		return k.name
	}
	return "unknown"
}

// HTTPStatus is the response status for errors of this type.
func (et ErrorType) HTTPStatus() int {
	if k, ok := kinds[et]; ok {
		return k.status
	}
	return http.StatusInternalServerError
}

// AppError is a categorized error carrying a stable code and optional
// key/value context for logs.
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError of the same type and code.
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && e.Type == other.Type && e.Code == other.Code
}

func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext records key=value on the error and returns it for chaining.
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *AppError) GetContext(key string) (interface{}, bool) {
	value, exists := e.Context[key]
	return value, exists
}
