// internal/infrastructure/database/redis/cart_repository.go
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/domain/cart"
)

// CartRepository persists cart state as a JSON blob keyed by session ID
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartRepository creates a new cart repository
func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func cartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

// Load retrieves the persisted cart state for a session
func (r *CartRepository) Load(ctx context.Context, sessionID string) (*cart.State, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, cart.ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}

	var state cart.State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}

	return &state, nil
}

// Save writes the cart state with the configured expiration
func (r *CartRepository) Save(ctx context.Context, sessionID string, state *cart.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cartKey(sessionID), data, r.ttl).Err()
}

// Clear deletes the persisted cart state for a session
func (r *CartRepository) Clear(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, cartKey(sessionID)).Err()
}
