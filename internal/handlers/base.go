package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"agora/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	if userID := middleware.CurrentUserID(c); userID != "" {
		obj["CurrentUserID"] = userID
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// RenderError renders the error page for err.
func RenderError(c *gin.Context, err error) {
	code, message := middleware.StatusOf(err)
	Render(c, code, "error.html", gin.H{"Error": message})
}

// respond writes a success envelope: {success, data}.
func respond(c *gin.Context, code int, data any) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// respondList writes {success, count, data}.
func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(items), "data": items})
}

// bindError turns a binding failure into a 400 with a readable message.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return middleware.NewAPIError(http.StatusBadRequest, "invalid request body")
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return middleware.NewAPIError(http.StatusBadRequest, field+" is required")
	case "max":
		return middleware.NewAPIError(http.StatusBadRequest, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
	case "min":
		return middleware.NewAPIError(http.StatusBadRequest, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
	case "oneof":
		return middleware.NewAPIError(http.StatusBadRequest, fmt.Sprintf("%s must be one of: %s", field, fe.Param()))
	case "email":
		return middleware.NewAPIError(http.StatusBadRequest, field+" is not valid")
	}
	return middleware.NewAPIError(http.StatusBadRequest, field+" is invalid")
}
