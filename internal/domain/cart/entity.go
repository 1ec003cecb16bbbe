// internal/domain/cart/entity.go
package cart

// LineItem represents one distinct product selection in the cart
type LineItem struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	ImageRef       string `json:"image_ref,omitempty"`
	Slug           string `json:"slug,omitempty"`
	UnitPrice      int64  `json:"unit_price"` // Price in cents, resolved by the catalog
	AvailableStock int    `json:"available_stock"`
	Quantity       int    `json:"quantity"`
}

// LineTotal returns the price of this line (unit price times quantity)
func (i LineItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// State represents the full cart state for one shopper session
type State struct {
	Items  []LineItem `json:"items"`
	IsOpen bool       `json:"is_open"`
}

// ItemCount returns the sum of all line quantities. It is always derived
// from Items, never stored.
func (s State) ItemCount() int {
	count := 0
	for _, item := range s.Items {
		count += item.Quantity
	}
	return count
}

// Total returns the sum of unit price times quantity over all lines.
// It is always derived from Items, never stored.
func (s State) Total() int64 {
	var total int64
	for _, item := range s.Items {
		total += item.LineTotal()
	}
	return total
}

// Clone returns a deep copy of the state so consumers can never mutate
// the store's items directly.
func (s State) Clone() State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return State{Items: items, IsOpen: s.IsOpen}
}

// Totals represents the derived cart summary exposed over the API
type Totals struct {
	ItemCount int   `json:"item_count"`
	Total     int64 `json:"total"`
}

// Summary returns the derived totals for the current state
func (s State) Summary() Totals {
	return Totals{ItemCount: s.ItemCount(), Total: s.Total()}
}
