// internal/infrastructure/database/redis/checkout_repository.go
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/domain/checkout"
)

// CheckoutRepository persists checkout sessions as JSON blobs so a
// sign-in redirect or restart does not lose the attempt
type CheckoutRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCheckoutRepository creates a new checkout session repository
func NewCheckoutRepository(client *redis.Client, ttl time.Duration) *CheckoutRepository {
	return &CheckoutRepository{client: client, ttl: ttl}
}

func checkoutKey(sessionID string) string {
	return fmt.Sprintf("checkout:session:%s", sessionID)
}

// Load retrieves the persisted checkout session
func (r *CheckoutRepository) Load(ctx context.Context, sessionID string) (*checkout.Session, error) {
	data, err := r.client.Get(ctx, checkoutKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, checkout.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session checkout.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("unmarshal checkout session failed: %w", err)
	}

	return &session, nil
}

// Save writes the checkout session with the configured expiration
func (r *CheckoutRepository) Save(ctx context.Context, sessionID string, session *checkout.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, checkoutKey(sessionID), data, r.ttl).Err()
}

// Delete discards the persisted checkout session
func (r *CheckoutRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, checkoutKey(sessionID)).Err()
}
