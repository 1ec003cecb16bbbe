// internal/domain/order/entity.go
package order

import (
	"fmt"
	"strings"

	"github.com/your-org/storefront-backend/internal/domain/cart"
)

// Snapshot is the immutable order payload assembled once per submission
// attempt. It is never mutated after construction; a failed submission
// builds a fresh snapshot on retry.
type Snapshot struct {
	Items    []cart.LineItem `json:"items"`
	Customer Customer        `json:"customer"`
	Shipping Shipping        `json:"shipping"`
	Delivery Delivery        `json:"delivery"`
	Payment  Payment         `json:"payment"`
	Totals   Totals          `json:"totals"`
	Notes    string          `json:"notes,omitempty"`
}

// Customer identifies the shopper placing the order
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Shipping is the delivery address
type Shipping struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

// Delivery carries delivery instructions
type Delivery struct {
	Notes string `json:"notes,omitempty"`
}

// Payment carries the selected method and, for transfers, the proof reference
type Payment struct {
	Method     string `json:"method"`
	ProofImage string `json:"proofImage,omitempty"`
}

// Totals carries the computed amounts, in cents
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Total    int64 `json:"total"`
}

// NewSnapshot assembles a snapshot from the cart state and checkout data.
// Totals are recomputed from the items, never copied from stored values.
func NewSnapshot(state cart.State, customer Customer, shipping Shipping, payment Payment, deliveryNotes, notes string) *Snapshot {
	items := make([]cart.LineItem, len(state.Items))
	copy(items, state.Items)

	subtotal := state.Total()
	return &Snapshot{
		Items:    items,
		Customer: customer,
		Shipping: shipping,
		Delivery: Delivery{Notes: deliveryNotes},
		Payment:  payment,
		Totals:   Totals{Subtotal: subtotal, Total: subtotal},
		Notes:    notes,
	}
}

// SubmitResult carries the created order identifier returned by the gateway
type SubmitResult struct {
	OrderID string `json:"orderId"`
}

// FieldDetail is one field-level validation error returned by the gateway
type FieldDetail struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// SubmissionError is a gateway rejection or transport failure on submit
type SubmissionError struct {
	StatusCode int
	Message    string
	Details    []FieldDetail
}

func (e *SubmissionError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Details))
	for i, d := range e.Details {
		parts[i] = fmt.Sprintf("%s: %s", d.Path, d.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, "; "))
}
