package models

import (
	"fmt"
	"strings"
)

// PaymentProvider identifies one of the two supported external providers
type PaymentProvider string

const (
	// ProviderMomo is the QR/wallet provider
	ProviderMomo PaymentProvider = "momo"
	// ProviderPayOS is the hosted-checkout provider
	ProviderPayOS PaymentProvider = "payos"
)

// ParsePaymentProvider parses a provider name
func ParsePaymentProvider(s string) (PaymentProvider, error) {
	switch PaymentProvider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderMomo:
		return ProviderMomo, nil
	case ProviderPayOS:
		return ProviderPayOS, nil
	}
	return "", fmt.Errorf("unsupported payment provider %q", s)
}

// PaymentStatus represents the settlement status of a payment record
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PaymentTicketLine is one entry of the breakdown re-sent on payment creation
type PaymentTicketLine struct {
	TicketID int    `json:"ticket_id"`
	TypeName string `json:"ticketTypeName"`
	Quantity int    `json:"quantity"`
	Price    int    `json:"price"`
}

// CreatePaymentRequest is the body of POST /create-payment/{provider}
type CreatePaymentRequest struct {
	BookingID   string              `json:"booking_id"`
	Amount      int                 `json:"amount"`
	Method      PaymentProvider     `json:"payment_method,omitempty"`
	TicketTypes []PaymentTicketLine `json:"ticket_type"`
}

// PaymentSession is the provider redirect obtained for a booking
type PaymentSession struct {
	Provider    PaymentProvider `json:"provider"`
	BookingID   string          `json:"booking_id"`
	Amount      int             `json:"amount"`
	RedirectURL string          `json:"payment_url"`
	OrderCode   string          `json:"order_code,omitempty"`
}

// PaymentNotification is the body of /success-payment and /fail-payment
type PaymentNotification struct {
	Code    int                     `json:"code"`
	Desc    string                  `json:"desc"`
	Success bool                    `json:"success"`
	Data    PaymentNotificationData `json:"data"`
}

// PaymentNotificationData carries the order code
type PaymentNotificationData struct {
	OrderCode string `json:"orderCode"`
}

// NewPaymentNotification builds the one-shot outcome notification
func NewPaymentNotification(orderCode string, success bool) PaymentNotification {
	desc := "Failed"
	if success {
		desc = "Success"
	}
	return PaymentNotification{
		Code:    0,
		Desc:    desc,
		Success: success,
		Data:    PaymentNotificationData{OrderCode: orderCode},
	}
}

// PaymentCheckResult is the backend's answer to an outcome notification
type PaymentCheckResult struct {
	StatusCode int           `json:"statusCode"`
	Status     PaymentStatus `json:"status"`
	Message    string        `json:"message"`
}
