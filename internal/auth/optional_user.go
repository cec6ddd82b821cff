package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// OptionalUser trusts the X-User-Id header as the caller's uid.
// Use this ONLY when Firebase auth is not configured (development/testing).
// A missing header leaves the request anonymous.
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFirebaseUID(c) == "" {
			if uid := strings.TrimSpace(c.GetHeader("X-User-Id")); uid != "" {
				c.Set(CtxFirebaseUID, uid)
			}
		}
		c.Next()
	}
}
