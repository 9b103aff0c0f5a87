package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DevelopmentAuth surfaces the caller identity header to handlers. Real
// authentication lives at the platform edge; requests without a valid
// X-User-ID stay anonymous.
func DevelopmentAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if _, err := uuid.Parse(userID); err == nil {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// CurrentUserID returns the authenticated user id for this request, or ""
// for anonymous callers.
func CurrentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}
