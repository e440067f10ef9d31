package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"event-ticketing-storefront/internal/models"
)

// MyBookingsPath is where the caller lands once the payment page is opened
const MyBookingsPath = "/my-bookings"

// BookingInput is everything needed to submit a booking
type BookingInput struct {
	Event     *models.Event
	Contact   models.Contact
	Selection *models.Selection
}

// Validate checks the input before any network call
func (in BookingInput) Validate() error {
	if in.Event == nil || in.Event.ID <= 0 {
		return models.NewValidationError("event", "event is required")
	}
	if err := in.Contact.Validate(); err != nil {
		return err
	}
	if in.Selection == nil || in.Selection.TotalQuantity() < 1 {
		return models.NewValidationError("tickets", "select at least one ticket")
	}
	if in.Selection.Event() == nil || in.Selection.Event().ID != in.Event.ID {
		return models.NewValidationError("event", "ticket selection belongs to another event")
	}
	return nil
}

// BookingResult is a booking the backend accepted
type BookingResult struct {
	BookingID      string
	IdempotencyKey string
	EventID        int
	Amount         int
	Lines          []models.SelectionLine
}

// BookingService submits bookings
type BookingService struct {
	api    BookingAPI
	logger *zap.Logger
	newKey func() string
}

// NewBookingService creates a booking service
func NewBookingService(api BookingAPI, logger *zap.Logger) *BookingService {
	return &BookingService{api: api, logger: logger, newKey: uuid.NewString}
}

// Submit validates the input and creates one booking. Every call gets a fresh
// idempotency key.
func (s *BookingService) Submit(ctx context.Context, in BookingInput) (*BookingResult, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	lines := in.Selection.Lines()
	ticketTypes := make([]models.BookingTicketLine, 0, len(lines))
	for _, line := range lines {
		ticketTypes = append(ticketTypes, models.BookingTicketLine{
			Type:     line.TypeName,
			Quantity: line.Quantity,
			TicketID: line.TicketID,
		})
	}

	result := &BookingResult{
		IdempotencyKey: s.newKey(),
		EventID:        in.Event.ID,
		Amount:         in.Selection.Total(),
		Lines:          lines,
	}

	bookingID, err := s.api.CreateBooking(ctx, models.CreateBookingRequest{
		EventID:        in.Event.ID,
		FullName:       in.Contact.FullName,
		Email:          in.Contact.Email,
		Phone:          in.Contact.Phone,
		TicketTypes:    ticketTypes,
		TotalAmount:    result.Amount,
		IdempotencyKey: result.IdempotencyKey,
	})
	if err != nil {
		s.logger.Warn("Booking submission failed",
			zap.Int("event_id", in.Event.ID),
			zap.String("idempotency_key", result.IdempotencyKey),
			zap.Error(err))
		return nil, err
	}

	result.BookingID = bookingID
	s.logger.Info("Booking created",
		zap.String("booking_id", bookingID),
		zap.Int("event_id", in.Event.ID),
		zap.Int("amount", result.Amount))
	return result, nil
}

// CheckoutInput is a booking plus the chosen provider
type CheckoutInput struct {
	BookingInput
	Provider models.PaymentProvider
}

// CheckoutResult is what the caller needs after the handoff
type CheckoutResult struct {
	FlowID     string                 `json:"flow_id,omitempty"`
	BookingID  string                 `json:"booking_id"`
	Provider   models.PaymentProvider `json:"provider"`
	Amount     int                    `json:"amount"`
	PaymentURL string                 `json:"payment_url"`
	OrderCode  string                 `json:"order_code,omitempty"`
	Next       string                 `json:"next"`
}

// CheckoutService runs booking, payment creation and the redirect handoff
type CheckoutService struct {
	bookings *BookingService
	payments *PaymentService
	flows    *FlowService
	opener   Opener
	logger   *zap.Logger
}

// NewCheckoutService creates a checkout service. flows may be nil when no
// flow tracking is wanted.
func NewCheckoutService(api CheckoutAPI, flows *FlowService, opener Opener, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		bookings: NewBookingService(api, logger),
		payments: NewPaymentService(api, logger),
		flows:    flows,
		opener:   opener,
		logger:   logger,
	}
}

// Checkout books, creates the payment, opens the provider page and moves the
// caller to the bookings list without waiting for the payment. The booking
// stays pending until reconciliation.
func (s *CheckoutService) Checkout(ctx context.Context, nav Navigator, in CheckoutInput) (*CheckoutResult, error) {
	if _, err := models.ParsePaymentProvider(string(in.Provider)); err != nil {
		return nil, models.NewValidationError("provider", err.Error())
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	booking, err := s.bookings.Submit(ctx, in.BookingInput)
	if err != nil {
		return nil, err
	}

	flow := s.startFlow(ctx, booking, in.Provider)

	session, err := s.payments.Initiate(ctx, PaymentInput{
		BookingID: booking.BookingID,
		Amount:    booking.Amount,
		Lines:     booking.Lines,
		Provider:  in.Provider,
	})
	if err != nil {
		if flow != nil {
			s.recordFlowError(ctx, flow.ID, err)
		}
		return nil, err
	}

	result := &CheckoutResult{
		BookingID:  booking.BookingID,
		Provider:   session.Provider,
		Amount:     session.Amount,
		PaymentURL: session.RedirectURL,
		OrderCode:  session.OrderCode,
		Next:       MyBookingsPath,
	}
	if flow != nil {
		result.FlowID = flow.ID
		if _, err := s.flows.MarkPaymentPending(ctx, flow.ID, session); err != nil {
			s.logger.Warn("Failed to mark checkout flow as payment pending", zap.String("flow_id", flow.ID), zap.Error(err))
		}
	}

	if s.opener != nil {
		if err := s.opener.Open(session.RedirectURL); err != nil {
			s.logger.Warn("Failed to open payment page", zap.String("booking_id", booking.BookingID), zap.Error(err))
		}
	}
	if nav != nil {
		nav.Replace(MyBookingsPath)
	}
	return result, nil
}

func (s *CheckoutService) startFlow(ctx context.Context, booking *BookingResult, provider models.PaymentProvider) *models.CheckoutFlow {
	if s.flows == nil {
		return nil
	}
	flow, err := s.flows.Start(ctx, booking, provider)
	if err != nil {
		s.logger.Warn("Failed to record checkout flow", zap.String("booking_id", booking.BookingID), zap.Error(err))
		return nil
	}
	return flow
}

func (s *CheckoutService) recordFlowError(ctx context.Context, flowID string, cause error) {
	if err := s.flows.RecordError(ctx, flowID, cause.Error()); err != nil && !errors.Is(err, models.ErrFlowNotFound) {
		s.logger.Warn("Failed to record checkout flow error", zap.String("flow_id", flowID), zap.Error(err))
	}
}
