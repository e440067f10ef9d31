package repositories

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"event-ticketing-storefront/internal/database"
	"event-ticketing-storefront/internal/models"
)

func newFlow(state models.FlowState, updated time.Time) *models.CheckoutFlow {
	return &models.CheckoutFlow{
		ID:             uuid.NewString(),
		IdempotencyKey: uuid.NewString(),
		EventID:        7,
		State:          state,
		Amount:         500000,
		CreatedAt:      updated,
		UpdatedAt:      updated,
	}
}

// flowStoreContract runs the same behaviour checks against any FlowStore
func flowStoreContract(t *testing.T, store FlowStore) {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	t.Run("create and get", func(t *testing.T) {
		flow := newFlow(models.FlowCreated, now)
		require.NoError(t, store.Create(ctx, flow))

		got, err := store.Get(ctx, flow.ID)
		require.NoError(t, err)
		assert.Equal(t, flow.IdempotencyKey, got.IdempotencyKey)
		assert.Equal(t, models.FlowCreated, got.State)
	})

	t.Run("duplicate idempotency key", func(t *testing.T) {
		flow := newFlow(models.FlowCreated, now)
		require.NoError(t, store.Create(ctx, flow))

		dup := newFlow(models.FlowCreated, now)
		dup.IdempotencyKey = flow.IdempotencyKey
		assert.ErrorIs(t, store.Create(ctx, dup), ErrFlowExists)
	})

	t.Run("missing flow", func(t *testing.T) {
		_, err := store.Get(ctx, uuid.NewString())
		assert.ErrorIs(t, err, models.ErrFlowNotFound)

		_, err = store.GetByOrderCode(ctx, "")
		assert.ErrorIs(t, err, models.ErrFlowNotFound)

		assert.ErrorIs(t, store.Update(ctx, newFlow(models.FlowCreated, now)), models.ErrFlowNotFound)
	})

	t.Run("update and lookups", func(t *testing.T) {
		flow := newFlow(models.FlowCreated, now)
		require.NoError(t, store.Create(ctx, flow))

		flow.BookingID = "b-" + flow.ID[:8]
		flow.OrderCode = "oc-" + flow.ID[:8]
		flow.Provider = models.ProviderPayOS
		require.NoError(t, flow.Transition(models.FlowPaymentPending, now.Add(time.Second)))
		require.NoError(t, store.Update(ctx, flow))

		byCode, err := store.GetByOrderCode(ctx, flow.OrderCode)
		require.NoError(t, err)
		assert.Equal(t, flow.ID, byCode.ID)
		assert.Equal(t, models.FlowPaymentPending, byCode.State)
		assert.Equal(t, models.ProviderPayOS, byCode.Provider)

		byBooking, err := store.GetByBookingID(ctx, flow.BookingID)
		require.NoError(t, err)
		assert.Equal(t, flow.ID, byBooking.ID)
	})

	t.Run("list stale", func(t *testing.T) {
		old := newFlow(models.FlowPaymentPending, now.Add(-2*time.Hour))
		fresh := newFlow(models.FlowPaymentPending, now)
		other := newFlow(models.FlowCreated, now.Add(-2*time.Hour))
		for _, f := range []*models.CheckoutFlow{old, fresh, other} {
			require.NoError(t, store.Create(ctx, f))
		}

		stale, err := store.ListStale(ctx, models.FlowPaymentPending, now.Add(-time.Hour))
		require.NoError(t, err)

		ids := make([]string, 0, len(stale))
		for _, f := range stale {
			ids = append(ids, f.ID)
		}
		assert.Contains(t, ids, old.ID)
		assert.NotContains(t, ids, fresh.ID)
		assert.NotContains(t, ids, other.ID)
	})
}

func TestMemoryFlowStore(t *testing.T) {
	flowStoreContract(t, NewMemoryFlowStore())
}

func TestMemoryFlowStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryFlowStore()
	flow := newFlow(models.FlowCreated, time.Now())
	require.NoError(t, store.Create(context.Background(), flow))

	got, err := store.Get(context.Background(), flow.ID)
	require.NoError(t, err)
	got.State = models.FlowCancelled

	again, err := store.Get(context.Background(), flow.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FlowCreated, again.State)
}

func setupFlowTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("Database tests require TEST_DATABASE_URL")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, zap.NewNop()).RunMigrations(context.Background()))
	_, err = db.Exec("DELETE FROM checkout_flows")
	require.NoError(t, err)
	return db
}

func TestPostgresFlowStore(t *testing.T) {
	db := setupFlowTestDB(t)
	flowStoreContract(t, NewPostgresFlowStore(db))
}
