package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingStatuses lists every known booking status
var BookingStatuses = []BookingStatus{BookingPending, BookingConfirmed, BookingCancelled}

// Valid reports whether the status is one of the known values
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	}
	return false
}

// ParseBookingStatus parses a status string
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown booking status %q", s)
	}
	return status, nil
}

// Contact holds the buyer's contact fields echoed on the booking
type Contact struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

var (
	contactEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	contactPhoneRegex = regexp.MustCompile(`^\+?[0-9 .()-]{6,20}$`)
)

// Validate checks that every contact field is present and well formed
func (c Contact) Validate() error {
	if strings.TrimSpace(c.FullName) == "" {
		return NewValidationError("full_name", "full name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return NewValidationError("email", "email is required")
	}
	if !contactEmailRegex.MatchString(strings.TrimSpace(c.Email)) {
		return NewValidationError("email", "email format is invalid")
	}
	if strings.TrimSpace(c.Phone) == "" {
		return NewValidationError("phone", "phone number is required")
	}
	if !contactPhoneRegex.MatchString(strings.TrimSpace(c.Phone)) {
		return NewValidationError("phone", "phone number format is invalid")
	}
	return nil
}

// BookingTicketLine is one entry of the ticket breakdown sent on creation
type BookingTicketLine struct {
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
	TicketID int    `json:"ticket_id"`
}

// CreateBookingRequest is the body of POST /bookings
type CreateBookingRequest struct {
	EventID     int                 `json:"event_id"`
	FullName    string              `json:"booking_full_name"`
	Email       string              `json:"booking_email"`
	Phone       string              `json:"booking_phone"`
	TicketTypes []BookingTicketLine `json:"ticket_types"`
	TotalAmount int                 `json:"total_amount"`

	// IdempotencyKey travels as a header, not in the body
	IdempotencyKey string `json:"-"`
}

// BookingEventSummary is the event snippet attached to a user's booking
type BookingEventSummary struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	ImageURL string `json:"image_url,omitempty"`
}

// Booking is a booking as listed in "my bookings"
type Booking struct {
	ID          FlexID               `json:"booking_id"`
	EventID     int                  `json:"event_id"`
	UserID      int                  `json:"user_id"`
	BookingDate string               `json:"booking_date"`
	Status      BookingStatus        `json:"status"`
	TotalAmount Amount               `json:"total_amount"`
	Quantity    int                  `json:"quantity,omitempty"`
	Event       *BookingEventSummary `json:"event,omitempty"`
}

// MarshalJSON adds the shared presentation fields for the status
func (b Booking) MarshalJSON() ([]byte, error) {
	type alias Booking
	p := BookingStatusPresentation(b.Status)
	return json.Marshal(struct {
		alias
		StatusLabel string `json:"status_label"`
		StatusBadge string `json:"status_badge"`
	}{alias(b), p.Label, p.Badge})
}

// CanCancel reports whether the user may still cancel the booking
func (b *Booking) CanCancel() bool {
	return b.Status == BookingPending
}

// BookingStatusUpdate is the body of PUT /bookings/:id
type BookingStatusUpdate struct {
	Status   BookingStatus `json:"status,omitempty"`
	Quantity *int          `json:"quantity,omitempty"`
}

// Validate validates a status update
func (u *BookingStatusUpdate) Validate() error {
	if u.Status != "" && !u.Status.Valid() {
		return NewValidationError("status", "invalid booking status")
	}
	if u.Quantity != nil && *u.Quantity < 1 {
		return NewValidationError("quantity", "quantity must be at least 1")
	}
	return nil
}
