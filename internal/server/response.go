package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homebase/internal/errors"
	"homebase/internal/validation"
)

// APIError is the body of every error reply.
type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// respondError maps err onto a status code and the error envelope.
func (s *Server) respondError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError && errors.ShouldLogError(err) {
		s.log.Error("request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: body})
}

func errorResponse(err error) (int, APIError) {
	if ve, ok := validation.AsValidationError(err); ok {
		return http.StatusUnprocessableEntity, APIError{
			Message: ve.GetUserFriendlyMessage(),
			Code:    "VALIDATION_FAILED",
			Fields:  ve.FieldMessages(),
		}
	}

	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError, APIError{Message: "internal server error", Code: "INTERNAL"}
	}

	return errors.HTTPStatus(appErr), APIError{Message: errors.GetUserMessage(err), Code: appErr.Code}
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorEnvelope{Error: APIError{Message: msg, Code: "BAD_REQUEST"}})
}
