// internal/pkg/auth/signal.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
)

// Signal is the read-only authentication check consulted before order
// submission and before opening checkout from the cart sidebar.
type Signal interface {
	HasSession(ctx context.Context, token string) (bool, error)
}

// TokenSignal treats a session as present when the bearer token is a
// valid, unexpired JWT. Invalid tokens mean no session, not an error.
type TokenSignal struct {
	jwtManager *JWTManager
}

// NewTokenSignal creates a signal backed by local token validation
func NewTokenSignal(cfg *config.Config) *TokenSignal {
	return &TokenSignal{jwtManager: NewJWTManager(cfg)}
}

// HasSession reports whether the token represents an active session
func (s *TokenSignal) HasSession(_ context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	if _, err := s.jwtManager.ValidateToken(token); err != nil {
		return false, nil
	}
	return true, nil
}

// RemoteSignal probes the auth provider's session endpoint
type RemoteSignal struct {
	sessionURL string
	httpClient *http.Client
}

// NewRemoteSignal creates a signal backed by the auth provider
func NewRemoteSignal(cfg *config.Config) *RemoteSignal {
	return &RemoteSignal{
		sessionURL: cfg.Gateway.AuthSessionURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// HasSession asks the auth provider whether a session exists for the token
func (s *RemoteSignal) HasSession(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.sessionURL, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("session check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("session check returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("failed to read session response: %w", err)
	}

	var parsed struct {
		Authenticated bool `json:"authenticated"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return false, fmt.Errorf("failed to parse session response: %w", err)
	}

	return parsed.Authenticated, nil
}

// NewSignal selects the signal implementation from configuration
func NewSignal(cfg *config.Config) Signal {
	if cfg.Gateway.AuthMode == "remote" {
		return NewRemoteSignal(cfg)
	}
	return NewTokenSignal(cfg)
}
