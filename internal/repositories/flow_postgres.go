package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"event-ticketing-storefront/internal/models"
)

const uniqueViolation = "23505"

const flowColumns = `id, idempotency_key, event_id, booking_id, provider, order_code, amount, state, last_error, created_at, updated_at`

// PostgresFlowStore stores flows in the checkout_flows table
type PostgresFlowStore struct {
	db *sql.DB
}

// NewPostgresFlowStore creates a new postgres-backed flow store
func NewPostgresFlowStore(db *sql.DB) *PostgresFlowStore {
	return &PostgresFlowStore{db: db}
}

func (r *PostgresFlowStore) Create(ctx context.Context, flow *models.CheckoutFlow) error {
	query := `
		INSERT INTO checkout_flows (` + flowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		flow.ID,
		flow.IdempotencyKey,
		flow.EventID,
		flow.BookingID,
		string(flow.Provider),
		flow.OrderCode,
		flow.Amount,
		string(flow.State),
		flow.LastError,
		flow.CreatedAt,
		flow.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrFlowExists
		}
		return fmt.Errorf("failed to create checkout flow: %w", err)
	}
	return nil
}

func (r *PostgresFlowStore) Get(ctx context.Context, id string) (*models.CheckoutFlow, error) {
	query := `SELECT ` + flowColumns + ` FROM checkout_flows WHERE id = $1`
	return r.queryOne(ctx, query, id)
}

func (r *PostgresFlowStore) GetByOrderCode(ctx context.Context, orderCode string) (*models.CheckoutFlow, error) {
	if orderCode == "" {
		return nil, models.ErrFlowNotFound
	}
	query := `SELECT ` + flowColumns + ` FROM checkout_flows WHERE order_code = $1 ORDER BY updated_at DESC LIMIT 1`
	return r.queryOne(ctx, query, orderCode)
}

func (r *PostgresFlowStore) GetByBookingID(ctx context.Context, bookingID string) (*models.CheckoutFlow, error) {
	if bookingID == "" {
		return nil, models.ErrFlowNotFound
	}
	query := `SELECT ` + flowColumns + ` FROM checkout_flows WHERE booking_id = $1 ORDER BY updated_at DESC LIMIT 1`
	return r.queryOne(ctx, query, bookingID)
}

func (r *PostgresFlowStore) Update(ctx context.Context, flow *models.CheckoutFlow) error {
	query := `
		UPDATE checkout_flows
		SET booking_id = $2, provider = $3, order_code = $4, amount = $5, state = $6, last_error = $7, updated_at = $8
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		flow.ID,
		flow.BookingID,
		string(flow.Provider),
		flow.OrderCode,
		flow.Amount,
		string(flow.State),
		flow.LastError,
		flow.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update checkout flow: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return models.ErrFlowNotFound
	}
	return nil
}

func (r *PostgresFlowStore) ListStale(ctx context.Context, state models.FlowState, before time.Time) ([]*models.CheckoutFlow, error) {
	query := `SELECT ` + flowColumns + ` FROM checkout_flows WHERE state = $1 AND updated_at < $2 ORDER BY updated_at`

	rows, err := r.db.QueryContext(ctx, query, string(state), before)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale checkout flows: %w", err)
	}
	defer rows.Close()

	var flows []*models.CheckoutFlow
	for rows.Next() {
		flow, err := scanFlow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checkout flow: %w", err)
		}
		flows = append(flows, flow)
	}
	return flows, rows.Err()
}

func (r *PostgresFlowStore) queryOne(ctx context.Context, query string, arg any) (*models.CheckoutFlow, error) {
	flow, err := scanFlow(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrFlowNotFound
		}
		return nil, fmt.Errorf("failed to get checkout flow: %w", err)
	}
	return flow, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlow(row rowScanner) (*models.CheckoutFlow, error) {
	flow := &models.CheckoutFlow{}
	var provider, state string
	err := row.Scan(
		&flow.ID,
		&flow.IdempotencyKey,
		&flow.EventID,
		&flow.BookingID,
		&provider,
		&flow.OrderCode,
		&flow.Amount,
		&state,
		&flow.LastError,
		&flow.CreatedAt,
		&flow.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	flow.Provider = models.PaymentProvider(provider)
	flow.State = models.FlowState(state)
	return flow, nil
}
