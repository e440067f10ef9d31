package models

import "sort"

// Selection maps a ticket-type index of an event to the chosen quantity.
// Absence from the map means nothing is selected for that type. Totals are
// recomputed on every read.
type Selection struct {
	event      *Event
	quantities map[int]int
}

// SelectionLine is the per-ticket-type breakdown sent with bookings and payments
type SelectionLine struct {
	TicketID int    `json:"ticket_id"`
	TypeName string `json:"type_name"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
	Subtotal int    `json:"subtotal"`
}

// NewSelection creates an empty selection for an event. A selection over a
// nil event accepts no quantities.
func NewSelection(event *Event) *Selection {
	return &Selection{
		event:      event,
		quantities: make(map[int]int),
	}
}

// Event returns the event the selection belongs to
func (s *Selection) Event() *Event {
	return s.event
}

// SetQuantity replaces the quantity for the ticket type at index. It is a
// no-op returning false when the index is unknown or the quantity falls
// outside [0, available]. A zero quantity removes the entry.
func (s *Selection) SetQuantity(index, quantity int) bool {
	if s.event == nil {
		return false
	}
	ticketType := s.event.TicketType(index)
	if ticketType == nil {
		return false
	}
	if !ticketType.CanSelect(quantity) {
		return false
	}

	if quantity == 0 {
		delete(s.quantities, index)
	} else {
		s.quantities[index] = quantity
	}
	return true
}

// Adjust changes the quantity at index by delta, as the +/- controls do
func (s *Selection) Adjust(index, delta int) bool {
	return s.SetQuantity(index, s.Quantity(index)+delta)
}

// Quantity returns the selected quantity at index
func (s *Selection) Quantity(index int) int {
	return s.quantities[index]
}

// Total returns Σ(price × quantity) over the current selection
func (s *Selection) Total() int {
	total := 0
	for index, quantity := range s.quantities {
		total += s.event.TicketTypes[index].Price.Int() * quantity
	}
	return total
}

// TotalQuantity returns Σ quantity over the current selection
func (s *Selection) TotalQuantity() int {
	count := 0
	for _, quantity := range s.quantities {
		count += quantity
	}
	return count
}

// IsEmpty reports whether no ticket is selected
func (s *Selection) IsEmpty() bool {
	return s.TotalQuantity() == 0
}

// Lines returns the per-type breakdown ordered by ticket-type index
func (s *Selection) Lines() []SelectionLine {
	indexes := make([]int, 0, len(s.quantities))
	for index := range s.quantities {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	lines := make([]SelectionLine, 0, len(indexes))
	for _, index := range indexes {
		ticketType := s.event.TicketTypes[index]
		quantity := s.quantities[index]
		lines = append(lines, SelectionLine{
			TicketID: ticketType.ID,
			TypeName: ticketType.TypeName,
			Price:    ticketType.Price.Int(),
			Quantity: quantity,
			Subtotal: ticketType.Price.Int() * quantity,
		})
	}
	return lines
}

// Clear discards the selection
func (s *Selection) Clear() {
	s.quantities = make(map[int]int)
}
