// internal/domain/checkout/errors.go
package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSession is returned when an operation needs a started checkout
	ErrNoSession = errors.New("checkout has not been started")

	// ErrInvalidStep is returned when an operation does not apply to the
	// session's current step
	ErrInvalidStep = errors.New("operation not allowed in current checkout step")

	// ErrPaymentProofMissing blocks confirmation of a transfer payment
	// without an uploaded proof
	ErrPaymentProofMissing = errors.New("payment proof is required for transfer payments")

	// ErrNotAuthenticated blocks submission when no active session exists;
	// the checkout session is preserved so the attempt can resume after
	// sign-in
	ErrNotAuthenticated = errors.New("sign in to place your order")

	// ErrSubmitInFlight rejects a submission attempt while one is pending
	ErrSubmitInFlight = errors.New("order submission already in progress")

	// ErrEmptyCart rejects starting checkout with nothing in the cart
	ErrEmptyCart = errors.New("cart is empty")
)

// ValidationError is a field-level step guard failure. The session stays
// in its current step.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
