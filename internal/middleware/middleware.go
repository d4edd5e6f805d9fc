package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskdeck/pkg/logger"
)

// userKey is where the identity middleware stores the display name in the
// gin context.
const userKey = "user"

// RequestID assigns every request a uuid, exposes it in the X-Request-ID
// response header and attaches a request-scoped logger to the context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Header("X-Request-ID", id)
		ctx := logger.WithRequestID(c.Request.Context(), id)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Identity extracts the display name from the X-User-Name header. The name
// is the whole credential: the store scopes tasks per user by it, nothing
// more.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.GetHeader("X-User-Name"))
		if name == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing X-User-Name header"})
			logger.Debug(c.Request.Context(), "Request without identity header rejected")
			c.Abort()
			return
		}
		c.Set(userKey, name)
		c.Next()
	}
}

// UserName returns the identity set by Identity, empty if absent.
func UserName(c *gin.Context) string {
	v, _ := c.Get(userKey)
	name, _ := v.(string)
	return name
}
