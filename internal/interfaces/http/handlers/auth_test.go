package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

func newAuthRouter(t *testing.T) (*gin.Engine, *config.Config) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cfg.App.Name = "Storefront Backend"
	cfg.JWT.Secret = "test-secret-key-that-is-long-enough!"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.Gateway.AuthMode = "token"

	router := gin.New()
	router.Use(middleware.OptionalAuth(cfg))
	router.GET("/auth/session", NewAuthHandler(auth.NewSignal(cfg)).GetSession)
	return router, cfg
}

func TestGetSession_AuthenticatedWithIdentity(t *testing.T) {
	router, cfg := newAuthRouter(t)

	token, err := auth.NewJWTManager(cfg).GenerateAccessToken(42, "ada@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["authenticated"])
	assert.Equal(t, float64(42), data["user_id"])
}

func TestGetSession_GuestHasNoSession(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, false, data["authenticated"])
	assert.NotContains(t, data, "user_id")
}

func TestGetSession_InvalidTokenIsGuest(t *testing.T) {
	router, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeData(t, w)["authenticated"])
}
