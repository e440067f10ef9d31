package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnknown           = errors.New("unknown error")
	ErrValidation        = errors.New("validation failed")
	ErrPaymentInitiation = errors.New("payment initiation failed")
	ErrEventNotFound     = errors.New("event not found")
	ErrFlowNotFound      = errors.New("checkout flow not found")
	ErrInvalidTransition = errors.New("invalid checkout flow transition")
)

// ErrorKind classifies a failed backend call
type ErrorKind string

const (
	KindUnauthorized   ErrorKind = "unauthorized"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindUnknown        ErrorKind = "unknown"
)

// ValidationError is raised before any network call when the user's input is
// incomplete or inconsistent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// APIError is a classified failure returned by the backend client
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes both the sentinel for the kind and the underlying cause
func (e *APIError) Unwrap() []error {
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *APIError) sentinel() error {
	switch e.Kind {
	case KindUnauthorized:
		return ErrUnauthorized
	case KindInvalidRequest:
		return ErrInvalidRequest
	default:
		return ErrUnknown
	}
}

// PaymentInitiationError wraps any failure of a provider's creation call.
// The booking stays pending so the user can retry from the bookings list.
type PaymentInitiationError struct {
	Provider PaymentProvider
	Message  string
	Err      error
}

func (e *PaymentInitiationError) Error() string {
	return fmt.Sprintf("payment initiation via %s failed: %s", e.Provider, e.Message)
}

func (e *PaymentInitiationError) Unwrap() []error {
	errs := []error{ErrPaymentInitiation}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// UserMessage maps an error to the message shown inline to the user
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var paymentErr *PaymentInitiationError
	if errors.As(err, &paymentErr) {
		if paymentErr.Message != "" {
			return paymentErr.Message
		}
		return "Could not start the payment. Your booking is kept as pending, please retry from My Bookings."
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case KindUnauthorized:
			if apiErr.Message != "" {
				return apiErr.Message
			}
			return "Please sign in again."
		case KindInvalidRequest:
			if apiErr.Message != "" {
				return apiErr.Message
			}
			return "The request was rejected."
		}
	}

	if errors.Is(err, ErrUnauthorized) {
		return "Please sign in again."
	}

	return "Something went wrong. Please try again."
}
