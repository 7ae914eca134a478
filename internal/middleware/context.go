package middleware

import "github.com/gin-gonic/gin"

// Context keys used to store request and authentication metadata
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyRequestID = "request_id"
)

// UserIDFromContext returns the authenticated user id, if any
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(ContextKeyUserID)
}

// RequestIDFromContext extracts the request identifier if available
func RequestIDFromContext(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}
