package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminMiddleware rejects any principal without the admin role. Must run
// after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if !principal.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "admin role required",
				},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
