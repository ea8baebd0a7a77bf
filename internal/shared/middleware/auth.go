package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tue-news-backend/internal/shared"
	"tue-news-backend/pkg/jwt"
)

// AuthMiddleware validates the bearer token and puts a typed principal in
// the context. Requests without a valid token are rejected.
func AuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := principalFromHeader(c, manager)
		if !ok {
			c.JSON(401, gin.H{"success": false, "error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "missing or invalid authorization token",
			}})
			c.Abort()
			return
		}

		c.Set(shared.PrincipalContextKey, principal)
		c.Next()
	}
}

// OptionalAuthMiddleware resolves a principal when a token is present but
// lets anonymous requests through. Used on article reads, where the access
// policy decides per-article what an anonymous caller may see.
func OptionalAuthMiddleware(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal, ok := principalFromHeader(c, manager); ok {
			c.Set(shared.PrincipalContextKey, principal)
		}
		c.Next()
	}
}

func principalFromHeader(c *gin.Context, manager *jwt.Manager) (shared.Principal, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return shared.Principal{}, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return shared.Principal{}, false
	}

	claims, err := manager.ValidateToken(parts[1])
	if err != nil || claims.Type != "access" {
		return shared.Principal{}, false
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return shared.Principal{}, false
	}

	return shared.Principal{
		ID:            userID,
		Role:          shared.Role(claims.Role),
		Authenticated: true,
	}, true
}

// GetPrincipal reads the principal set by the auth middlewares; returns the
// anonymous principal when none was set.
func GetPrincipal(c *gin.Context) shared.Principal {
	value, exists := c.Get(shared.PrincipalContextKey)
	if !exists {
		return shared.Anonymous()
	}
	principal, ok := value.(shared.Principal)
	if !ok {
		return shared.Anonymous()
	}
	return principal
}
