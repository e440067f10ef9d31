package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"event-ticketing-storefront/internal/models"
	"event-ticketing-storefront/internal/repositories"
)

// FlowService drives checkout flows through their states
type FlowService struct {
	store      repositories.FlowStore
	pendingTTL time.Duration
	logger     *zap.Logger

	// mu serialises read-transition-write cycles within the process
	mu  sync.Mutex
	now func() time.Time
}

// NewFlowService creates a flow service. Flows left in payment_pending for
// longer than pendingTTL are expired by the sweeper.
func NewFlowService(store repositories.FlowStore, pendingTTL time.Duration, logger *zap.Logger) *FlowService {
	return &FlowService{
		store:      store,
		pendingTTL: pendingTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Start records a new flow for an accepted booking
func (s *FlowService) Start(ctx context.Context, booking *BookingResult, provider models.PaymentProvider) (*models.CheckoutFlow, error) {
	now := s.now()
	flow := &models.CheckoutFlow{
		ID:             uuid.NewString(),
		IdempotencyKey: booking.IdempotencyKey,
		EventID:        booking.EventID,
		BookingID:      booking.BookingID,
		Provider:       provider,
		Amount:         booking.Amount,
		State:          models.FlowCreated,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.Create(ctx, flow); err != nil {
		return nil, fmt.Errorf("failed to create checkout flow: %w", err)
	}
	return flow, nil
}

// Get returns a flow by id
func (s *FlowService) Get(ctx context.Context, id string) (*models.CheckoutFlow, error) {
	return s.store.Get(ctx, id)
}

// MarkPaymentPending records the provider session and moves the flow to
// payment_pending
func (s *FlowService) MarkPaymentPending(ctx context.Context, id string, session *models.PaymentSession) (*models.CheckoutFlow, error) {
	return s.update(ctx, func(ctx context.Context) (*models.CheckoutFlow, error) {
		return s.store.Get(ctx, id)
	}, func(flow *models.CheckoutFlow) error {
		flow.Provider = session.Provider
		flow.OrderCode = session.OrderCode
		return flow.Transition(models.FlowPaymentPending, s.now())
	})
}

// RecordError stores a failure message on the flow without changing state
func (s *FlowService) RecordError(ctx context.Context, id, message string) error {
	_, err := s.update(ctx, func(ctx context.Context) (*models.CheckoutFlow, error) {
		return s.store.Get(ctx, id)
	}, func(flow *models.CheckoutFlow) error {
		flow.LastError = message
		flow.UpdatedAt = s.now()
		return nil
	})
	return err
}

// Resolve applies a reconciliation outcome to the flow holding orderCode.
// A failed notification moves the flow to reconciliation_failed. Unknown
// order codes return models.ErrFlowNotFound.
func (s *FlowService) Resolve(ctx context.Context, orderCode string, success bool, notifyErr error) (*models.CheckoutFlow, error) {
	return s.update(ctx, func(ctx context.Context) (*models.CheckoutFlow, error) {
		return s.store.GetByOrderCode(ctx, orderCode)
	}, func(flow *models.CheckoutFlow) error {
		switch {
		case notifyErr != nil:
			if err := flow.Transition(models.FlowReconciliationFailed, s.now()); err != nil {
				return err
			}
			flow.LastError = notifyErr.Error()
			return nil
		case success:
			return flow.Transition(models.FlowConfirmed, s.now())
		default:
			return flow.Transition(models.FlowCancelled, s.now())
		}
	})
}

// CancelBooking moves the booking's flow to cancelled when it can still be
// cancelled. Bookings without a flow are ignored.
func (s *FlowService) CancelBooking(ctx context.Context, bookingID string) error {
	_, err := s.update(ctx, func(ctx context.Context) (*models.CheckoutFlow, error) {
		return s.store.GetByBookingID(ctx, bookingID)
	}, func(flow *models.CheckoutFlow) error {
		return flow.Transition(models.FlowCancelled, s.now())
	})
	if errors.Is(err, models.ErrFlowNotFound) || errors.Is(err, models.ErrInvalidTransition) {
		return nil
	}
	return err
}

// ExpireStale marks payment_pending flows not updated for olderThan as
// expired and returns how many were expired
func (s *FlowService) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	stale, err := s.store.ListStale(ctx, models.FlowPaymentPending, s.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("failed to list stale checkout flows: %w", err)
	}

	expired := 0
	for _, candidate := range stale {
		id := candidate.ID
		_, err := s.update(ctx, func(ctx context.Context) (*models.CheckoutFlow, error) {
			return s.store.Get(ctx, id)
		}, func(flow *models.CheckoutFlow) error {
			return flow.Transition(models.FlowExpired, s.now())
		})
		if err != nil {
			// A notification may have landed between the listing and now
			if errors.Is(err, models.ErrInvalidTransition) {
				continue
			}
			return expired, err
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("Expired stale checkout flows", zap.Int("count", expired))
	}
	return expired, nil
}

// Run sweeps stale flows every interval until ctx is done. A non-positive
// interval disables the sweeper.
func (s *FlowService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		s.logger.Warn("Checkout flow sweeper disabled", zap.Duration("interval", interval))
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.ExpireStale(ctx, s.pendingTTL); err != nil {
				s.logger.Error("Checkout flow sweep failed", zap.Error(err))
			}
		}
	}
}

func (s *FlowService) update(ctx context.Context, load func(context.Context) (*models.CheckoutFlow, error), apply func(*models.CheckoutFlow) error) (*models.CheckoutFlow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if err := apply(flow); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, flow); err != nil {
		return nil, fmt.Errorf("failed to update checkout flow: %w", err)
	}
	return flow, nil
}
