// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// AuthHandler exposes the authentication signal to the storefront UI
type AuthHandler struct {
	signal auth.Signal
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(signal auth.Signal) *AuthHandler {
	return &AuthHandler{signal: signal}
}

// GetSession handles GET /auth/session: the read-only "is a session
// present" check consulted before opening checkout
func (h *AuthHandler) GetSession(c *gin.Context) {
	token := middleware.GetSessionToken(c)

	active, err := h.signal.HasSession(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Session check failed",
		})
		return
	}

	data := gin.H{
		"authenticated": active,
	}

	// Identity is only known for locally validated tokens
	if userID, ok := middleware.GetUserIDFromContext(c); ok && active {
		data["user_id"] = userID
	}

	c.JSON(http.StatusOK, gin.H{"data": data})
}
