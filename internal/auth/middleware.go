package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	botTokenHeader   = "X-Bot-Token"
	adminTokenHeader = "X-Admin-Token"
	requestIDHeader  = "X-Request-ID"

	contextKeyRequestID = "request_id"
)

// RequestIDFromContext returns the request id set by RequestID. Empty if not set.
func RequestIDFromContext(c *gin.Context) string {
	v, ok := c.Get(contextKeyRequestID)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}

// RequestID assigns each request a uuid, echoed in the response header and
// available to log fields.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequireBotToken checks the shared secret the bot backend sends with every
// call. Responds 401 on mismatch.
func RequireBotToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(botTokenHeader)
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Next()
	}
}

// RequireAdminToken checks the admin token against its stored bcrypt hash
// (generate one with scripts/genhash.go). An empty hash disables the route.
func RequireAdminToken(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hash == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access disabled"})
			return
		}
		got := c.GetHeader(adminTokenHeader)
		if got == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(got)) != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Next()
	}
}
