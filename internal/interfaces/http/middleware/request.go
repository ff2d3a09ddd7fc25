package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header names shared by the middleware chain
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderUserID         = "X-User-ID"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// RequestIDKey is where RequestID stores the request ID in the gin context
const RequestIDKey = "request_id"

const maxRequestIDLength = 128

// RequestID tags every request with an ID, echoed in the response header.
// A caller-supplied ID is kept unless it is blank or too long.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

var secureHeaders = [][2]string{
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
}

// Secure sets the security headers for a JSON-only API
func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, kv := range secureHeaders {
			c.Header(kv[0], kv[1])
		}
		c.Next()
	}
}

// Timeout puts a deadline on the request context. Queries run with that
// context, so an overrunning unit of work is cancelled and rolled back.
// A non-positive timeout disables it.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	if timeout <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
