// internal/domain/cart/store.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrStockExhausted is returned when an item with zero available stock is added
var ErrStockExhausted = errors.New("item is out of stock")

// Repository persists cart state as an opaque durable key-value write
type Repository interface {
	Load(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, sessionID string, state *State) error
	Clear(ctx context.Context, sessionID string) error
}

// ErrCartNotFound is returned by a Repository when no cart exists for the session
var ErrCartNotFound = errors.New("cart not found")

// Subscriber receives a snapshot of the cart state after every mutation
type Subscriber func(State)

// Store is the authoritative cart state for one shopper session. All
// mutation goes through its operations; every mutation persists the new
// state synchronously and then notifies subscribers with a copy.
type Store struct {
	mu        sync.Mutex
	sessionID string
	state     State
	repo      Repository
	subs      []Subscriber
	logger    *logrus.Logger
}

// NewStore creates an empty cart store for the given session
func NewStore(sessionID string, repo Repository, logger *logrus.Logger) *Store {
	return &Store{
		sessionID: sessionID,
		state:     State{Items: []LineItem{}},
		repo:      repo,
		logger:    logger,
	}
}

// LoadStore materializes a store from the repository, starting empty when
// no cart has been persisted for the session yet.
func LoadStore(ctx context.Context, sessionID string, repo Repository, logger *logrus.Logger) (*Store, error) {
	store := NewStore(sessionID, repo, logger)

	state, err := repo.Load(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	store.state = *state
	if store.state.Items == nil {
		store.state.Items = []LineItem{}
	}
	return store, nil
}

// Subscribe registers a subscriber notified after every mutation
func (s *Store) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SessionID returns the shopper session this store belongs to
func (s *Store) SessionID() string {
	return s.sessionID
}

// AddItem adds an item to the cart. If the item is already present its
// quantity is incremented by one, clamped to the available stock. Items
// with zero available stock are refused.
func (s *Store) AddItem(ctx context.Context, item LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.AvailableStock <= 0 {
		s.logger.WithFields(logrus.Fields{
			"session_id": s.sessionID,
			"item_id":    item.ID,
		}).Debug("Refused out of stock item")
		return ErrStockExhausted
	}

	found := false
	for i := range s.state.Items {
		if s.state.Items[i].ID == item.ID {
			s.state.Items[i].Quantity = clamp(s.state.Items[i].Quantity+1, s.state.Items[i].AvailableStock)
			found = true
			break
		}
	}

	if !found {
		item.Quantity = 1
		s.state.Items = append(s.state.Items, item)
	}

	return s.commit(ctx)
}

// RemoveItem deletes the line item unconditionally. Removing an absent
// item is not an error.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := false
	for i, item := range s.state.Items {
		if item.ID == id {
			s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
			removed = true
			break
		}
	}

	if !removed {
		return nil
	}
	return s.commit(ctx)
}

// UpdateQuantity sets the quantity of a line item, clamped to the range
// [1, available stock]. A requested quantity below one removes the item.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.state.Items {
		if item.ID != id {
			continue
		}

		if quantity < 1 {
			// Decrementing past one is removal
			s.state.Items = append(s.state.Items[:i], s.state.Items[i+1:]...)
			return s.commit(ctx)
		}

		s.state.Items[i].Quantity = clamp(quantity, item.AvailableStock)
		return s.commit(ctx)
	}

	return nil
}

// ToggleCart flips the cart panel visibility. Items are untouched.
func (s *Store) ToggleCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.IsOpen = !s.state.IsOpen
	return s.commit(ctx)
}

// CloseCart hides the cart panel. Items are untouched.
func (s *Store) CloseCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsOpen {
		return nil
	}
	s.state.IsOpen = false
	return s.commit(ctx)
}

// ClearCart empties the cart. Called by the checkout orchestrator after a
// confirmed successful submission, never partially.
func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Items = []LineItem{}
	if err := s.repo.Clear(ctx, s.sessionID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	s.logger.WithField("session_id", s.sessionID).Info("Cart cleared")
	s.notify()
	return nil
}

// commit persists the current state and notifies subscribers. Callers must
// hold the mutex.
func (s *Store) commit(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.sessionID, &s.state); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	s.notify()
	return nil
}

// notify delivers a state copy to every subscriber. Callers must hold the mutex.
func (s *Store) notify() {
	if len(s.subs) == 0 {
		return
	}
	snapshot := s.state.Clone()
	for _, sub := range s.subs {
		sub(snapshot)
	}
}

func clamp(quantity, availableStock int) int {
	if quantity > availableStock {
		return availableStock
	}
	if quantity < 1 {
		return 1
	}
	return quantity
}
