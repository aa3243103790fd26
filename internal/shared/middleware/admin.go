package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware checks if user has admin role.
// The role comes from the JWT claim set by AuthMiddleware, never from
// hardcoded emails - authorization is decided here, not inside loan logic.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: admin role required",
			})
			c.Abort()
			return
		}

		role, ok := roleInterface.(string)
		if !ok || role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
