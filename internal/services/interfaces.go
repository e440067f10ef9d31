package services

import (
	"context"

	"event-ticketing-storefront/internal/models"
)

// BookingAPI creates bookings on the backend
type BookingAPI interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (string, error)
}

// PaymentAPI creates provider payment sessions on the backend
type PaymentAPI interface {
	CreatePayment(ctx context.Context, provider models.PaymentProvider, req models.CreatePaymentRequest) (*models.PaymentSession, error)
}

// CheckoutAPI is everything a checkout needs from the backend
type CheckoutAPI interface {
	BookingAPI
	PaymentAPI
}

// OutcomeAPI forwards payment outcomes to the backend
type OutcomeAPI interface {
	SuccessPayment(ctx context.Context, orderCode string) (*models.PaymentCheckResult, error)
	FailPayment(ctx context.Context, orderCode string) (*models.PaymentCheckResult, error)
}

// Opener hands a provider URL to a new browsing context
type Opener interface {
	Open(url string) error
}

// Navigator moves the caller's current view
type Navigator interface {
	Replace(path string)
}

// OpenerFunc adapts a function to Opener
type OpenerFunc func(url string) error

func (f OpenerFunc) Open(url string) error { return f(url) }
