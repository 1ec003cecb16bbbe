// internal/domain/cart/manager.go
package cart

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Manager hands out one Store per shopper session, materializing it from
// the repository on first use. Stores are long-lived so subscribers stay
// attached for the life of the session.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
	repo   Repository
	logger *logrus.Logger
	subs   []Subscriber
}

// NewManager creates a new store manager
func NewManager(repo Repository, logger *logrus.Logger) *Manager {
	return &Manager{
		stores: make(map[string]*Store),
		repo:   repo,
		logger: logger,
	}
}

// SubscribeAll registers a subscriber attached to every store the manager
// hands out, existing and future.
func (m *Manager) SubscribeAll(sub Subscriber) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, sub)
	for _, store := range m.stores {
		store.Subscribe(sub)
	}
}

// Store returns the cart store for the given session, loading persisted
// state on first access.
func (m *Manager) Store(ctx context.Context, sessionID string) (*Store, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if store, ok := m.stores[sessionID]; ok {
		return store, nil
	}

	store, err := LoadStore(ctx, sessionID, m.repo, m.logger)
	if err != nil {
		return nil, err
	}
	for _, sub := range m.subs {
		store.Subscribe(sub)
	}
	m.stores[sessionID] = store
	return store, nil
}

// Evict drops the in-memory store for a session. Persisted state is untouched.
func (m *Manager) Evict(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}
