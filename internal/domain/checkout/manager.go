// internal/domain/checkout/manager.go
package checkout

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Manager hands out one Orchestrator per shopper session, resuming any
// persisted checkout attempt on first access.
type Manager struct {
	mu            sync.Mutex
	orchestrators map[string]*Orchestrator
	carts         *cart.Manager
	repo          Repository
	gateway       order.Gateway
	signal        auth.Signal
	logger        *logrus.Logger
}

// NewManager creates a new checkout manager
func NewManager(carts *cart.Manager, repo Repository, gateway order.Gateway, signal auth.Signal, logger *logrus.Logger) *Manager {
	return &Manager{
		orchestrators: make(map[string]*Orchestrator),
		carts:         carts,
		repo:          repo,
		gateway:       gateway,
		signal:        signal,
		logger:        logger,
	}
}

// Orchestrator returns the checkout orchestrator for the given session
func (m *Manager) Orchestrator(ctx context.Context, sessionID string) (*Orchestrator, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if o, ok := m.orchestrators[sessionID]; ok {
		return o, nil
	}

	store, err := m.carts.Store(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	o := NewOrchestrator(sessionID, store, m.repo, m.gateway, m.signal, m.logger)
	if err := o.Resume(ctx); err != nil {
		return nil, err
	}

	m.orchestrators[sessionID] = o
	return o, nil
}
