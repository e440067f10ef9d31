package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_Is(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := fmt.Errorf("create booking: %w", &APIError{Kind: KindUnknown, Message: "backend unreachable", Err: cause})

	assert.ErrorIs(t, err, ErrUnknown)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	unauthorized := &APIError{Kind: KindUnauthorized, Status: 401}
	assert.ErrorIs(t, unauthorized, ErrUnauthorized)
	assert.Contains(t, unauthorized.Error(), "401")
}

func TestPaymentInitiationError_Is(t *testing.T) {
	err := &PaymentInitiationError{
		Provider: ProviderPayOS,
		Message:  "provider down",
		Err:      &APIError{Kind: KindUnauthorized, Status: 401},
	}

	assert.ErrorIs(t, err, ErrPaymentInitiation)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "payos")
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: NewValidationError("email", "email is required"), want: "email is required"},
		{name: "invalid request", err: &APIError{Kind: KindInvalidRequest, Message: "Not enough tickets"}, want: "Not enough tickets"},
		{name: "unauthorized without message", err: &APIError{Kind: KindUnauthorized}, want: "Please sign in again."},
		{name: "unknown", err: &APIError{Kind: KindUnknown, Message: "boom"}, want: "Something went wrong. Please try again."},
		{name: "payment default", err: &PaymentInitiationError{Provider: ProviderMomo}, want: "Could not start the payment. Your booking is kept as pending, please retry from My Bookings."},
		{name: "bare sentinel", err: fmt.Errorf("x: %w", ErrUnauthorized), want: "Please sign in again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}
