package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/storefront-backend/internal/config"
)

func tokenConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "Storefront Backend"
	cfg.JWT.Secret = "test-secret-key-that-is-long-enough!"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.Gateway.AuthMode = "token"
	return cfg
}

func TestTokenSignal_ValidTokenHasSession(t *testing.T) {
	cfg := tokenConfig()
	token, err := NewJWTManager(cfg).GenerateAccessToken(42, "ada@example.com")
	require.NoError(t, err)

	active, err := NewTokenSignal(cfg).HasSession(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, active)
}

func TestTokenSignal_EmptyTokenMeansNoSession(t *testing.T) {
	active, err := NewTokenSignal(tokenConfig()).HasSession(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestTokenSignal_InvalidTokenIsNotAnError(t *testing.T) {
	active, err := NewTokenSignal(tokenConfig()).HasSession(context.Background(), "not-a-jwt")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestTokenSignal_ExpiredTokenMeansNoSession(t *testing.T) {
	cfg := tokenConfig()
	cfg.JWT.AccessTokenExpiry = -time.Hour
	token, err := NewJWTManager(cfg).GenerateAccessToken(42, "ada@example.com")
	require.NoError(t, err)

	active, err := NewTokenSignal(cfg).HasSession(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestTokenSignal_WrongSecretMeansNoSession(t *testing.T) {
	cfg := tokenConfig()
	token, err := NewJWTManager(cfg).GenerateAccessToken(42, "ada@example.com")
	require.NoError(t, err)

	other := tokenConfig()
	other.JWT.Secret = "a-completely-different-secret-key-here"

	active, err := NewTokenSignal(other).HasSession(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, active)
}

func remoteConfig(url string) *config.Config {
	cfg := &config.Config{}
	cfg.Gateway.AuthMode = "remote"
	cfg.Gateway.AuthSessionURL = url
	return cfg
}

func TestRemoteSignal_AuthenticatedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authenticated":true}`))
	}))
	defer server.Close()

	active, err := NewRemoteSignal(remoteConfig(server.URL)).HasSession(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, active)
}

func TestRemoteSignal_UnauthenticatedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"authenticated":false}`))
	}))
	defer server.Close()

	active, err := NewRemoteSignal(remoteConfig(server.URL)).HasSession(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRemoteSignal_UnauthorizedStatusMeansNoSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	active, err := NewRemoteSignal(remoteConfig(server.URL)).HasSession(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.False(t, active)
}

func TestRemoteSignal_ProviderErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewRemoteSignal(remoteConfig(server.URL)).HasSession(context.Background(), "tok-1")
	require.ErrorContains(t, err, "status 500")
}

func TestNewSignal_SelectsImplementationByMode(t *testing.T) {
	assert.IsType(t, &TokenSignal{}, NewSignal(tokenConfig()))
	assert.IsType(t, &RemoteSignal{}, NewSignal(remoteConfig("http://localhost:9001")))
}
