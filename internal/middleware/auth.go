package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"

// TokenParser turns a bearer token into a user id.
type TokenParser interface {
	UserIDFromToken(raw string) (string, error)
}

// LoadUser resolves the caller from a bearer token, falling back to the session
// cookie. Requests without a valid identity pass through anonymously.
func LoadUser(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			if userID, err := tokens.UserIDFromToken(strings.TrimPrefix(header, "Bearer ")); err == nil {
				c.Set(UserIDKey, userID)
			}
		} else if userID, ok := sessions.Default(c).Get(UserIDKey).(string); ok && userID != "" {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == "" {
			c.Error(NewAPIError(http.StatusUnauthorized, "not authorized to access this route"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
