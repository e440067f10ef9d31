package backend

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"event-ticketing-storefront/internal/auth"
	"event-ticketing-storefront/internal/models"
)

func TestClassification(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        any
		wantKind    models.ErrorKind
		wantMessage string
		wantCleared bool
	}{
		{name: "success false on 200", status: 200, body: map[string]any{"success": false, "message": "Not enough tickets"}, wantKind: models.KindInvalidRequest, wantMessage: "Not enough tickets"},
		{name: "bad request", status: 400, body: map[string]any{"message": "Invalid ticket type"}, wantKind: models.KindInvalidRequest, wantMessage: "Invalid ticket type"},
		{name: "error key", status: 400, body: map[string]any{"error": "Invalid JSON payload"}, wantKind: models.KindInvalidRequest, wantMessage: "Invalid JSON payload"},
		{name: "not found", status: 404, body: map[string]any{"message": "Event not found"}, wantKind: models.KindInvalidRequest, wantMessage: "Event not found"},
		{name: "conflict", status: 409, body: map[string]any{"message": "Sold out"}, wantKind: models.KindInvalidRequest, wantMessage: "Sold out"},
		{name: "forbidden keeps session", status: 403, body: map[string]any{"message": "Admins only"}, wantKind: models.KindUnauthorized, wantMessage: "Admins only"},
		{name: "expired jwt", status: 401, body: map[string]any{"message": "JWT expired"}, wantKind: models.KindUnauthorized, wantMessage: "Your session has expired. Please sign in again.", wantCleared: true},
		{name: "other 401", status: 401, body: map[string]any{"message": "Invalid token"}, wantKind: models.KindUnauthorized, wantMessage: "You do not have permission to access this resource.", wantCleared: true},
		{name: "server error", status: 500, body: map[string]any{"message": "boom"}, wantKind: models.KindUnknown, wantMessage: "boom"},
		{name: "bad gateway without body", status: 502, body: nil, wantKind: models.KindUnknown, wantMessage: "Bad Gateway"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeBackend(t)
			f.reply(http.MethodGet, "/bookings/my-bookings", tt.status, tt.body)
			s, store, _ := f.session("/my-bookings")

			_, err := s.MyBookings(context.Background())

			var apiErr *models.APIError
			require.True(t, errors.As(err, &apiErr), "got %v", err)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Equal(t, tt.wantCleared, store.Token() == "")
			assert.Len(t, f.calls(http.MethodGet, "/bookings/my-bookings"), 1, "no retries")
		})
	}
}

func TestUndecodableBodyIsUnknown(t *testing.T) {
	f := newFakeBackend(t)
	f.handle(http.MethodGet, "/bookings/my-bookings", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})
	s, _, _ := f.session("/my-bookings")

	_, err := s.MyBookings(context.Background())

	assert.ErrorIs(t, err, models.ErrUnknown)
}

func TestTransportErrorIsUnknown(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", time.Second, zap.NewNop())
	s := c.WithSession(auth.NewMemoryStore(), nil)

	_, err := s.ListEvents(context.Background(), models.EventFilter{})

	assert.ErrorIs(t, err, models.ErrUnknown)
}

func TestInterceptor_Navigation(t *testing.T) {
	t.Run("navigates to root from elsewhere", func(t *testing.T) {
		f := newFakeBackend(t)
		f.reply(http.MethodGet, "/bookings/my-bookings", 401, map[string]any{"message": "JWT expired"})
		s, store, nav := f.session("/my-bookings")

		_, err := s.MyBookings(context.Background())

		assert.True(t, IsUnauthorized(err))
		assert.Empty(t, store.Token())
		assert.Equal(t, []string{"/"}, nav.Replaced())
	})

	t.Run("stays put when already at root", func(t *testing.T) {
		f := newFakeBackend(t)
		f.reply(http.MethodGet, "/bookings/my-bookings", 401, map[string]any{"message": "JWT expired"})
		s, store, nav := f.session("/")

		_, err := s.MyBookings(context.Background())

		assert.True(t, IsUnauthorized(err))
		assert.Empty(t, store.Token())
		assert.Empty(t, nav.Replaced())
	})

	t.Run("nil navigator only clears", func(t *testing.T) {
		f := newFakeBackend(t)
		f.reply(http.MethodGet, "/bookings/my-bookings", 401, map[string]any{})
		store := auth.NewMemoryStore()
		_ = store.SetToken("t")
		s := f.client().WithSession(store, nil)

		_, err := s.MyBookings(context.Background())

		assert.True(t, IsUnauthorized(err))
		assert.Empty(t, store.Token())
	})
}

func TestBearerToken(t *testing.T) {
	f := newFakeBackend(t)
	f.reply(http.MethodGet, "/bookings/my-bookings", 200, map[string]any{"success": true, "bookings": []any{}})
	f.reply(http.MethodGet, "/events", 200, map[string]any{"success": true, "events": []any{}})
	s, _, _ := f.session("/")

	_, err := s.MyBookings(context.Background())
	require.NoError(t, err)
	_, err = s.ListEvents(context.Background(), models.EventFilter{})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", f.calls(http.MethodGet, "/bookings/my-bookings")[0].Header.Get("Authorization"))
	assert.Empty(t, f.calls(http.MethodGet, "/events")[0].Header.Get("Authorization"), "catalog reads are anonymous")
}

func TestDecodePage(t *testing.T) {
	page, err := decodePage[models.User]([]byte(`{"success":true,"users":[{"id":1},{"id":2}],"total":12,"page":1,"totalPages":6}`), "users")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 6, page.TotalPages)

	page, err = decodePage[models.User]([]byte(`{"success":true,"items":[{"id":3}],"total":1,"page":1,"totalPages":1}`), "users")
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 3, page.Items[0].ID)

	page, err = decodePage[models.User]([]byte(`{"success":true}`), "users")
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestDecodePage_FloatCounters(t *testing.T) {
	page, err := decodePage[models.User]([]byte(`{"success":true,"users":[{"id":1}],"total":41.0,"page":"2","totalPages":5.0}`), "users")
	require.NoError(t, err)
	assert.Equal(t, 41, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.TotalPages)

	_, err = decodePage[models.User]([]byte(`{"success":true,"users":[],"total":"many"}`), "users")
	assert.ErrorIs(t, err, models.ErrUnknown)
}
