package backend

import (
	"context"
	"net/http"

	"event-ticketing-storefront/internal/models"
)

// CreatePayment requests a provider redirect for a booking
func (s *Session) CreatePayment(ctx context.Context, provider models.PaymentProvider, req models.CreatePaymentRequest) (*models.PaymentSession, error) {
	switch provider {
	case models.ProviderMomo:
		return s.CreateMomoPayment(ctx, req)
	case models.ProviderPayOS:
		return s.CreatePayOSPayment(ctx, req)
	}
	return nil, models.NewValidationError("provider", "unsupported payment provider")
}

// CreateMomoPayment creates a QR/wallet payment; the answer carries payUrl
func (s *Session) CreateMomoPayment(ctx context.Context, req models.CreatePaymentRequest) (*models.PaymentSession, error) {
	req.Method = models.ProviderMomo
	data, err := s.do(ctx, &request{method: http.MethodPost, path: "/create-payment/momo", body: req, authenticated: true})
	if err != nil {
		return nil, err
	}
	var resp struct {
		PayURL string `json:"payUrl"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	return paymentSession(models.ProviderMomo, req, resp.PayURL, "")
}

// CreatePayOSPayment creates a hosted checkout; the answer carries the order
// code used later for reconciliation
func (s *Session) CreatePayOSPayment(ctx context.Context, req models.CreatePaymentRequest) (*models.PaymentSession, error) {
	req.Method = models.ProviderPayOS
	data, err := s.do(ctx, &request{method: http.MethodPost, path: "/create-payment/payos", body: req, authenticated: true})
	if err != nil {
		return nil, err
	}
	var resp struct {
		PaymentURL string        `json:"payment_url"`
		OrderCode  models.FlexID `json:"order_code"`
	}
	if err := decode(data, &resp); err != nil {
		return nil, err
	}
	return paymentSession(models.ProviderPayOS, req, resp.PaymentURL, resp.OrderCode.String())
}

func paymentSession(provider models.PaymentProvider, req models.CreatePaymentRequest, redirect, orderCode string) (*models.PaymentSession, error) {
	if redirect == "" {
		return nil, &models.APIError{Kind: models.KindUnknown, Message: "backend returned no payment URL"}
	}
	return &models.PaymentSession{
		Provider:    provider,
		BookingID:   req.BookingID,
		Amount:      req.Amount,
		RedirectURL: redirect,
		OrderCode:   orderCode,
	}, nil
}

// SuccessPayment notifies the backend that the provider reported success
func (s *Session) SuccessPayment(ctx context.Context, orderCode string) (*models.PaymentCheckResult, error) {
	return s.notifyPayment(ctx, "/success-payment", models.NewPaymentNotification(orderCode, true))
}

// FailPayment notifies the backend that the payment was cancelled or failed
func (s *Session) FailPayment(ctx context.Context, orderCode string) (*models.PaymentCheckResult, error) {
	return s.notifyPayment(ctx, "/fail-payment", models.NewPaymentNotification(orderCode, false))
}

func (s *Session) notifyPayment(ctx context.Context, path string, n models.PaymentNotification) (*models.PaymentCheckResult, error) {
	data, err := s.do(ctx, &request{method: http.MethodPost, path: path, body: n, authenticated: true})
	if err != nil {
		return nil, err
	}
	var result models.PaymentCheckResult
	if err := decode(data, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
