package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Sign in required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have access to this resource"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Unexpected server error. Please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// RespondWithServiceError writes the response for an error returned by a service.
// Domain errors keep their code and message; anything else becomes a generic 500.
func RespondWithServiceError(c *gin.Context, err error, context string) {
	status := StatusFor(err)
	if de, ok := AsDomain(err); ok {
		c.JSON(status, ErrorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}

	info := ParseError(err, context)
	switch {
	case IsDuplicateKey(err):
		status = http.StatusConflict
	case info.Code == ResourceNotFound:
		status = http.StatusNotFound
	}
	c.JSON(status, ErrorResponse{Error: info.Code, Message: info.Message})
}
