package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ApprovalStatus is the moderation state of an event. An absent value on the
// wire means the event has not been reviewed yet.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Valid reports whether the status is one of the known values
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// ParseApprovalStatus parses an approval status
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	status := ApprovalStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", fmt.Errorf("unknown approval status %q", s)
	}
	return status, nil
}

// UnmarshalJSON maps null, empty and unknown values to pending
func (s *ApprovalStatus) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = ApprovalPending
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	status, err := ParseApprovalStatus(raw)
	if err != nil {
		*s = ApprovalPending
		return nil
	}
	*s = status
	return nil
}

// EventStatistics summarises sales of an event in the admin view
type EventStatistics struct {
	TotalBookings     int    `json:"totalBookings"`
	ConfirmedBookings int    `json:"confirmedBookings"`
	TicketsSold       int    `json:"ticketsSold"`
	Revenue           Amount `json:"revenue"`
}

// AdminEvent is an event as listed in the back office
type AdminEvent struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Time        string          `json:"time"`
	Location    string          `json:"location"`
	Address     string          `json:"address"`
	Image       string          `json:"image"`
	CreatedAt   string          `json:"createdAt"`
	OrganizerID int             `json:"organizerId"`
	Approval    ApprovalStatus  `json:"approved"`
	Statistics  EventStatistics `json:"statistics"`
}

// UnmarshalJSON defaults a missing approval field to pending
func (e *AdminEvent) UnmarshalJSON(data []byte) error {
	type alias AdminEvent
	aux := alias{Approval: ApprovalPending}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = AdminEvent(aux)
	return nil
}

// AdminEventFilter holds admin event list parameters
type AdminEventFilter struct {
	Category string
	Status   string // upcoming, past, today
	Search   string
	Page     int
	Limit    int
}

// BookingLine is one ticket line of an admin booking
type BookingLine struct {
	TicketID   int    `json:"ticketId"`
	TicketName string `json:"ticketName"`
	Quantity   int    `json:"quantity"`
	UnitPrice  Amount `json:"unitPrice"`
	Subtotal   Amount `json:"subtotal"`
}

// BookingPayment is the payment attached to an admin booking
type BookingPayment struct {
	ID            int           `json:"id"`
	Method        string        `json:"method"`
	Status        PaymentStatus `json:"status"`
	Amount        Amount        `json:"amount"`
	TransactionID string        `json:"transactionId"`
	CreatedAt     string        `json:"createdAt"`
}

// AdminBooking is a booking as listed in the back office
type AdminBooking struct {
	ID           int             `json:"id"`
	UserID       int             `json:"userId"`
	UserName     string          `json:"userName,omitempty"`
	EventID      int             `json:"eventId"`
	EventName    string          `json:"eventName"`
	EventDate    string          `json:"eventDate,omitempty"`
	FullName     string          `json:"fullName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	BookingDate  string          `json:"bookingDate"`
	Status       BookingStatus   `json:"status"`
	TotalAmount  Amount          `json:"totalAmount"`
	BookingLines []BookingLine   `json:"bookingLines"`
	Payment      *BookingPayment `json:"payment,omitempty"`
}

// AdminBookingFilter holds admin booking list parameters
type AdminBookingFilter struct {
	Status  string
	EventID int
	UserID  int
	Search  string
	Page    int
	Limit   int
}

// AdminBookingStatusUpdate is the body of PUT /admin/bookings/:id/status
type AdminBookingStatusUpdate struct {
	Status BookingStatus `json:"status"`
	Reason string        `json:"reason,omitempty"`
}

// Validate validates the status change
func (u *AdminBookingStatusUpdate) Validate() error {
	if !u.Status.Valid() {
		return NewValidationError("status", "invalid booking status")
	}
	if u.Status == BookingCancelled && strings.TrimSpace(u.Reason) == "" {
		return NewValidationError("reason", "a reason is required when cancelling a booking")
	}
	return nil
}

// AdminPayment is a payment as listed in the back office
type AdminPayment struct {
	ID            int           `json:"id"`
	BookingID     int           `json:"bookingId"`
	EventName     string        `json:"eventName"`
	CustomerName  string        `json:"customerName"`
	Method        string        `json:"method"`
	Status        PaymentStatus `json:"status"`
	Amount        Amount        `json:"amount"`
	TransactionID string        `json:"transactionId"`
	CreatedAt     string        `json:"createdAt"`
}

// AdminUserFilter holds admin user list parameters
type AdminUserFilter struct {
	Role   string
	Search string
	Page   int
	Limit  int
}

// AdminPaymentFilter holds admin payment list parameters
type AdminPaymentFilter struct {
	Status string
	Page   int
	Limit  int
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalUsers        int    `json:"totalUsers"`
	TotalEvents       int    `json:"totalEvents"`
	UpcomingEvents    int    `json:"upcomingEvents"`
	TotalBookings     int    `json:"totalBookings"`
	ConfirmedBookings int    `json:"confirmedBookings"`
	PendingBookings   int    `json:"pendingBookings"`
	TotalRevenue      Amount `json:"totalRevenue"`
	RevenueThisMonth  Amount `json:"revenueThisMonth"`
	TotalTicketsSold  int    `json:"totalTicketsSold"`
}

// RecentBooking is a dashboard row for a recent booking
type RecentBooking struct {
	ID          int           `json:"id"`
	EventName   string        `json:"eventName"`
	FullName    string        `json:"fullName"`
	BookingDate string        `json:"bookingDate"`
	Status      BookingStatus `json:"status"`
	TotalAmount Amount        `json:"totalAmount"`
}

// TopEvent is a dashboard row for a best-selling event
type TopEvent struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Date        string `json:"date"`
	TicketsSold int    `json:"ticketsSold"`
	Revenue     Amount `json:"revenue"`
}

// Page is one page of a paginated list
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}
