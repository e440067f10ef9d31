package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"event-ticketing-storefront/internal/models"
)

// PaymentInput is the payment request for an existing booking. Amount must
// be the total the booking was created with.
type PaymentInput struct {
	BookingID string
	Amount    int
	Lines     []models.SelectionLine
	Provider  models.PaymentProvider
}

// Validate checks the input and that the amount matches the breakdown
func (in PaymentInput) Validate() error {
	if in.BookingID == "" {
		return models.NewValidationError("booking_id", "booking id is required")
	}
	if _, err := models.ParsePaymentProvider(string(in.Provider)); err != nil {
		return models.NewValidationError("provider", err.Error())
	}
	if len(in.Lines) == 0 {
		return models.NewValidationError("tickets", "select at least one ticket")
	}

	total := 0
	for _, line := range in.Lines {
		total += line.Price * line.Quantity
	}
	if total != in.Amount {
		return models.NewValidationError("amount", fmt.Sprintf("amount %d does not match the ticket total %d", in.Amount, total))
	}
	return nil
}

// PaymentService creates provider payment sessions
type PaymentService struct {
	api    PaymentAPI
	logger *zap.Logger
}

// NewPaymentService creates a payment service
func NewPaymentService(api PaymentAPI, logger *zap.Logger) *PaymentService {
	return &PaymentService{api: api, logger: logger}
}

// Initiate asks the backend for the provider redirect. Any backend failure
// comes back as a *models.PaymentInitiationError.
func (s *PaymentService) Initiate(ctx context.Context, in PaymentInput) (*models.PaymentSession, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	lines := make([]models.PaymentTicketLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		lines = append(lines, models.PaymentTicketLine{
			TicketID: line.TicketID,
			TypeName: line.TypeName,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}

	session, err := s.api.CreatePayment(ctx, in.Provider, models.CreatePaymentRequest{
		BookingID:   in.BookingID,
		Amount:      in.Amount,
		TicketTypes: lines,
	})
	if err != nil {
		s.logger.Warn("Payment initiation failed",
			zap.String("booking_id", in.BookingID),
			zap.String("provider", string(in.Provider)),
			zap.Error(err))

		initErr := &models.PaymentInitiationError{Provider: in.Provider, Err: err}
		var apiErr *models.APIError
		if errors.As(err, &apiErr) {
			initErr.Message = apiErr.Message
		}
		return nil, initErr
	}

	s.logger.Info("Payment session created",
		zap.String("booking_id", in.BookingID),
		zap.String("provider", string(in.Provider)),
		zap.String("order_code", session.OrderCode))
	return session, nil
}
