package middleware

import (
	"errors"
	"net/http"

	"agora/internal/services"

	"github.com/gin-gonic/gin"
)

// APIError is an error that already knows its HTTP status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message}
}

// StatusOf maps an error to an HTTP status and a message safe to show callers.
func StatusOf(err error) (int, string) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr.Status, apiErr.Message
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrInvalidArgument), errors.Is(err, services.ErrEmailTaken):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrBadCredentials):
		return http.StatusUnauthorized, err.Error()
	}
	return http.StatusInternalServerError, "server error"
}

// ErrorHandler writes the first error pushed with c.Error as a JSON envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		status, msg := StatusOf(c.Errors[0].Err)
		c.JSON(status, gin.H{"success": false, "error": msg})
	}
}
