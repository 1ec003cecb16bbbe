// internal/domain/checkout/entity.go
package checkout

import "time"

// Step is the checkout state machine position
type Step string

const (
	StepClosed       Step = "closed"
	StepShippingInfo Step = "shipping_info"
	StepPaymentInfo  Step = "payment_info"
	StepConfirmation Step = "confirmation"
)

// PaymentMethod is the selected way to pay
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
)

// ShippingForm collects the customer and delivery address fields for the
// shipping step. First name, last name, email, phone, address and city are
// required before the session may leave StepShippingInfo.
type ShippingForm struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Validate checks the required fields, returning the first missing one
func (f *ShippingForm) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"first_name", f.FirstName},
		{"last_name", f.LastName},
		{"email", f.Email},
		{"phone", f.Phone},
		{"address", f.Address},
		{"city", f.City},
	}

	for _, r := range required {
		if r.value == "" {
			return &ValidationError{Field: r.field, Message: r.field + " is required"}
		}
	}
	return nil
}

// PaymentForm collects the payment step fields. A transfer additionally
// requires an attached proof reference before confirmation.
type PaymentForm struct {
	Method        PaymentMethod `json:"method"`
	Notes         string        `json:"notes"`
	DeliveryNotes string        `json:"delivery_notes"`
}

// Validate checks that a known payment method was selected
func (f *PaymentForm) Validate() error {
	switch f.Method {
	case MethodCash, MethodTransfer:
		return nil
	case "":
		return &ValidationError{Field: "method", Message: "payment method is required"}
	default:
		return &ValidationError{Field: "method", Message: "unknown payment method"}
	}
}

// Session is one checkout attempt. It is owned exclusively by the
// orchestrator and discarded on cancellation; the cart is untouched until
// a submission succeeds.
type Session struct {
	Step      Step         `json:"step"`
	Shipping  ShippingForm `json:"shipping"`
	Payment   PaymentForm  `json:"payment"`
	ProofRef  string       `json:"proof_ref,omitempty"`
	OrderID   string       `json:"order_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
