package models

// TicketType represents a priced category of admission within an event
type TicketType struct {
	ID                int    `json:"id"`
	TypeName          string `json:"typeName"`
	Price             Amount `json:"price"`
	Quantity          int    `json:"quantity"`
	AvailableQuantity *int   `json:"availableQuantity,omitempty"`
}

// Available returns the number of tickets that can still be selected. When
// the catalog does not report a remaining count the total quantity is used.
func (tt *TicketType) Available() int {
	available := tt.Quantity
	if tt.AvailableQuantity != nil {
		available = *tt.AvailableQuantity
	}
	if available < 0 {
		return 0
	}
	return available
}

// IsSoldOut returns true if no tickets remain
func (tt *TicketType) IsSoldOut() bool {
	return tt.Available() == 0
}

// CanSelect reports whether quantity is within [0, Available()]
func (tt *TicketType) CanSelect(quantity int) bool {
	return quantity >= 0 && quantity <= tt.Available()
}

// IntPtr is a small helper for optional integer fields
func IntPtr(v int) *int {
	return &v
}
