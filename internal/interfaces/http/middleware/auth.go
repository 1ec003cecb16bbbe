// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// OptionalAuth annotates the context with the bearer token and, when it
// validates locally, the shopper's identity. It never aborts: the cart is
// usable without a session, and the checkout orchestrator consults the
// authentication signal itself at submission time.
func OptionalAuth(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.Next()
			return
		}

		c.Set("session_token", tokenString)

		// Identity annotation is best-effort; the token may belong to a
		// remote auth provider this service cannot validate
		if claims, err := jwtManager.ValidateToken(tokenString); err == nil {
			c.Set("user_id", claims.UserID)
			c.Set("user_email", claims.Email)
		}

		c.Next()
	}
}

// GetSessionToken extracts the bearer token from gin context
func GetSessionToken(c *gin.Context) string {
	token, exists := c.Get("session_token")
	if !exists {
		return ""
	}
	return token.(string)
}

// GetUserIDFromContext extracts user ID from gin context
func GetUserIDFromContext(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	return userID.(uint), true
}
