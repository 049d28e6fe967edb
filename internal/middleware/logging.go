package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDKey = "request_id"

// RequestLogger tags each request with an id and logs the outcome.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		log.Printf("request %s >> %d | %s | %s %s | %v",
			requestID, c.Writer.Status(), c.ClientIP(), c.Request.Method, c.Request.URL.Path, time.Since(start))
		for _, e := range c.Errors {
			log.Printf("request %s >> error: %v", requestID, e.Err)
		}
	}
}
