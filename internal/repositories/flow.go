package repositories

import (
	"context"
	"errors"
	"time"

	"event-ticketing-storefront/internal/models"
)

// ErrFlowExists is returned when a flow with the same id or idempotency key
// is already stored
var ErrFlowExists = errors.New("checkout flow already exists")

// FlowStore persists checkout flows. Lookups that find nothing return
// models.ErrFlowNotFound.
type FlowStore interface {
	Create(ctx context.Context, flow *models.CheckoutFlow) error
	Get(ctx context.Context, id string) (*models.CheckoutFlow, error)
	GetByOrderCode(ctx context.Context, orderCode string) (*models.CheckoutFlow, error)
	GetByBookingID(ctx context.Context, bookingID string) (*models.CheckoutFlow, error)
	Update(ctx context.Context, flow *models.CheckoutFlow) error
	ListStale(ctx context.Context, state models.FlowState, before time.Time) ([]*models.CheckoutFlow, error)
}
