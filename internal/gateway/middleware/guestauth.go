package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tably-system/internal/utils"
)

const SessionIDKey = "guest_session_id"

// GuestAuth requires a bearer token issued at scan time and puts the
// guest's session id into the request context.
func GuestAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Missing or malformed authorization header",
			})
			return
		}

		claims, err := utils.ParseGuestToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid or expired session token",
			})
			return
		}

		c.Set(SessionIDKey, claims.SessionID)
		c.Next()
	}
}

// SessionID returns the guest session id set by GuestAuth.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
