// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
)

// Repository persists checkout sessions so an attempt survives a sign-in
// redirect or a process restart
type Repository interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, sessionID string, session *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// ErrSessionNotFound is returned by a Repository when no checkout session
// is persisted for the shopper
var ErrSessionNotFound = errors.New("checkout session not found")

// Orchestrator drives one shopper's checkout: a linear step sequence with
// per-step guards, an authentication check before submission, and a single
// atomic order submission. It owns the Session exclusively.
type Orchestrator struct {
	mu         sync.Mutex
	sessionID  string
	store      *cart.Store
	repo       Repository
	gateway    order.Gateway
	signal     auth.Signal
	logger     *logrus.Logger
	session    *Session
	submitting bool
}

// NewOrchestrator creates an orchestrator for one shopper session
func NewOrchestrator(sessionID string, store *cart.Store, repo Repository, gateway order.Gateway, signal auth.Signal, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{
		sessionID: sessionID,
		store:     store,
		repo:      repo,
		gateway:   gateway,
		signal:    signal,
		logger:    logger,
	}
}

// Resume loads a persisted session, leaving the orchestrator closed when
// none exists
func (o *Orchestrator) Resume(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	session, err := o.repo.Load(ctx, o.sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load checkout session: %w", err)
	}

	o.session = session
	return nil
}

// Current returns a copy of the session, or ErrNoSession when checkout is closed
func (o *Orchestrator) Current() (Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return Session{}, ErrNoSession
	}
	return *o.session, nil
}

// Step returns the current state machine position
func (o *Orchestrator) Step() Step {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return StepClosed
	}
	return o.session.Step
}

// Begin opens checkout on the shipping step. The cart must be non-empty.
// Beginning while a session is already open returns the open session.
func (o *Orchestrator) Begin(ctx context.Context) (Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.submitting {
		return Session{}, ErrSubmitInFlight
	}
	if o.session != nil {
		return *o.session, nil
	}

	if len(o.store.Snapshot().Items) == 0 {
		return Session{}, ErrEmptyCart
	}

	now := time.Now().UTC()
	o.session = &Session{
		Step:      StepShippingInfo,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := o.persist(ctx); err != nil {
		o.session = nil
		return Session{}, err
	}
	return *o.session, nil
}

// SubmitShipping validates the shipping form and advances to the payment
// step. On a validation failure the session stays in the shipping step.
func (o *Orchestrator) SubmitShipping(ctx context.Context, form ShippingForm) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return ErrNoSession
	}
	if o.session.Step != StepShippingInfo {
		return ErrInvalidStep
	}

	if err := form.Validate(); err != nil {
		return err
	}

	o.session.Shipping = form
	o.session.Step = StepPaymentInfo
	return o.persist(ctx)
}

// SubmitPayment records the payment form. The session stays in the payment
// step; confirmation is a separate action.
func (o *Orchestrator) SubmitPayment(ctx context.Context, form PaymentForm) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return ErrNoSession
	}
	if o.session.Step != StepPaymentInfo {
		return ErrInvalidStep
	}

	if err := form.Validate(); err != nil {
		return err
	}

	o.session.Payment = form
	return o.persist(ctx)
}

// AttachProof stores the uploaded payment proof reference
func (o *Orchestrator) AttachProof(ctx context.Context, ref string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return ErrNoSession
	}
	if o.session.Step != StepPaymentInfo {
		return ErrInvalidStep
	}

	o.session.ProofRef = ref
	return o.persist(ctx)
}

// RemoveProof clears the proof reference. No remote delete is attempted.
func (o *Orchestrator) RemoveProof(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return ErrNoSession
	}

	o.session.ProofRef = ""
	return o.persist(ctx)
}

// Confirm validates the payment step, checks the authentication signal,
// assembles a fresh order snapshot and submits it. On success the cart is
// cleared exactly once and the session reaches the confirmation step. On
// any failure the session stays in the payment step, fully intact, for a
// user-initiated retry.
func (o *Orchestrator) Confirm(ctx context.Context, token string) (Session, error) {
	o.mu.Lock()

	if o.session == nil {
		o.mu.Unlock()
		return Session{}, ErrNoSession
	}
	if o.session.Step != StepPaymentInfo {
		o.mu.Unlock()
		return Session{}, ErrInvalidStep
	}
	if o.submitting {
		o.mu.Unlock()
		return Session{}, ErrSubmitInFlight
	}

	if err := o.session.Payment.Validate(); err != nil {
		o.mu.Unlock()
		return Session{}, err
	}
	if o.session.Payment.Method == MethodTransfer && o.session.ProofRef == "" {
		o.mu.Unlock()
		return Session{}, ErrPaymentProofMissing
	}

	o.submitting = true
	session := *o.session
	snapshot := o.buildSnapshot(&session)
	o.mu.Unlock()

	result, err := o.submit(ctx, token, snapshot)

	o.mu.Lock()
	defer o.mu.Unlock()
	o.submitting = false

	if err != nil {
		return Session{}, err
	}

	// Cancel and Begin are rejected while submitting, so the session must
	// still be this attempt
	if o.session == nil {
		o.logger.WithField("session_id", o.sessionID).Error("Checkout session lost during submission")
		return Session{}, ErrNoSession
	}

	// Success: clear the cart exactly once and reach the terminal step
	if clearErr := o.store.ClearCart(ctx); clearErr != nil {
		o.logger.WithError(clearErr).Error("Failed to clear cart after successful submission")
	}

	o.session.Step = StepConfirmation
	o.session.OrderID = result.OrderID
	if err := o.persist(ctx); err != nil {
		o.logger.WithError(err).Error("Failed to persist confirmed checkout session")
	}

	o.logger.WithFields(logrus.Fields{
		"order_id":   result.OrderID,
		"session_id": o.sessionID,
	}).Info("Order submitted successfully")

	return *o.session, nil
}

// submit performs the authentication check and the gateway call. The
// orchestrator mutex is not held across these suspension points.
func (o *Orchestrator) submit(ctx context.Context, token string, snapshot *order.Snapshot) (*order.SubmitResult, error) {
	active, err := o.signal.HasSession(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("authentication check failed: %w", err)
	}
	if !active {
		return nil, ErrNotAuthenticated
	}

	return o.gateway.Submit(ctx, snapshot)
}

// buildSnapshot assembles the immutable order payload from the cart state
// and the session forms
func (o *Orchestrator) buildSnapshot(session *Session) *order.Snapshot {
	state := o.store.Snapshot()

	return order.NewSnapshot(
		state,
		order.Customer{
			FirstName: session.Shipping.FirstName,
			LastName:  session.Shipping.LastName,
			Email:     session.Shipping.Email,
			Phone:     session.Shipping.Phone,
		},
		order.Shipping{
			Address:    session.Shipping.Address,
			City:       session.Shipping.City,
			PostalCode: session.Shipping.PostalCode,
			Country:    session.Shipping.Country,
		},
		order.Payment{
			Method:     string(session.Payment.Method),
			ProofImage: session.ProofRef,
		},
		session.Payment.DeliveryNotes,
		session.Payment.Notes,
	)
}

// Cancel discards the checkout session. The cart is untouched. A session
// with a submission in flight cannot be cancelled; the outcome of the
// pending order must land first.
func (o *Orchestrator) Cancel(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.submitting {
		return ErrSubmitInFlight
	}
	if o.session == nil {
		return nil
	}

	o.session = nil
	if err := o.repo.Delete(ctx, o.sessionID); err != nil {
		return fmt.Errorf("failed to discard checkout session: %w", err)
	}
	return nil
}

// CloseConfirmed closes a completed checkout, returning to the closed state
func (o *Orchestrator) CloseConfirmed(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session == nil {
		return ErrNoSession
	}
	if o.session.Step != StepConfirmation {
		return ErrInvalidStep
	}

	o.session = nil
	if err := o.repo.Delete(ctx, o.sessionID); err != nil {
		return fmt.Errorf("failed to close checkout session: %w", err)
	}
	return nil
}

// persist saves the session. Callers must hold the mutex.
func (o *Orchestrator) persist(ctx context.Context) error {
	o.session.UpdatedAt = time.Now().UTC()
	if err := o.repo.Save(ctx, o.sessionID, o.session); err != nil {
		return fmt.Errorf("failed to persist checkout session: %w", err)
	}
	return nil
}
