package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"event-ticketing-storefront/internal/auth"
	"event-ticketing-storefront/internal/backend"
	"event-ticketing-storefront/internal/models"
)

type call struct {
	method string
	path   string
	body   []byte
}

type fakeBackend struct {
	*httptest.Server
	mu     sync.Mutex
	calls  []call
	routes map[string]func(w http.ResponseWriter)
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	f := &fakeBackend{routes: map[string]func(w http.ResponseWriter){}}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, call{method: r.Method, path: r.URL.Path, body: body})
		route, ok := f.routes[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if !ok {
			reply(w, http.StatusNotFound, map[string]any{"success": false, "message": "no route"})
			return
		}
		route(w)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeBackend) on(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = func(w http.ResponseWriter) { reply(w, status, body) }
}

func (f *fakeBackend) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.method == method && c.path == path {
			n++
		}
	}
	return n
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type opened struct {
	urls []string
}

func (o *opened) Open(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

func newTestApp(t *testing.T, fb *fakeBackend) (*app, *bytes.Buffer, *auth.MemoryStore, *opened) {
	t.Helper()
	store := auth.NewMemoryStore()
	require.NoError(t, store.SetToken("cli-token"))
	out := &bytes.Buffer{}
	opener := &opened{}
	a := &app{
		client:            backend.NewClient(fb.URL, 5*time.Second, zap.NewNop()),
		store:             store,
		opener:            opener,
		out:               out,
		logger:            zap.NewNop(),
		confirmationDelay: 1500 * time.Millisecond,
		defaultProvider:   "payos",
		sleep:             func(time.Duration) {},
	}
	return a, out, store, opener
}

func eventBody() map[string]any {
	return map[string]any{
		"success": true,
		"event": map[string]any{
			"id": 7, "title": "Summer Concert", "date": "2026-12-01", "time": "19:00", "location": "Hanoi",
			"ticket_types": []map[string]any{
				{"id": 11, "typeName": "VIP", "price": 100000, "quantity": 10},
				{"id": 12, "typeName": "General", "price": 50000, "quantity": 100, "availableQuantity": 0},
			},
		},
	}
}

func TestTicketFlags(t *testing.T) {
	var tickets ticketFlags
	require.NoError(t, tickets.Set("0=2"))
	require.NoError(t, tickets.Set(" 1 = 3 "))
	assert.Equal(t, ticketFlags{{index: 0, quantity: 2}, {index: 1, quantity: 3}}, tickets)
	assert.Equal(t, "0=2,1=3", tickets.String())

	assert.Error(t, tickets.Set("2"))
	assert.Error(t, tickets.Set("a=1"))
	assert.Error(t, tickets.Set("1=-1"))
}

func TestRun_UnknownCommand(t *testing.T) {
	a, out, _, _ := newTestApp(t, newFakeBackend(t))

	err := a.run(context.Background(), []string{"dance"})

	assert.ErrorIs(t, err, errUsage)
	assert.Contains(t, out.String(), "Usage: ticketctl")
}

func TestEvent_ShowsSoldOut(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/events/7", http.StatusOK, eventBody())
	a, out, _, _ := newTestApp(t, fb)

	require.NoError(t, a.run(context.Background(), []string{"event", "7"}))

	assert.Contains(t, out.String(), "Summer Concert")
	assert.Contains(t, out.String(), "sold out")
}

func TestCheckout_OpensPaymentPage(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/events/7", http.StatusOK, eventBody())
	fb.on(http.MethodPost, "/bookings", http.StatusCreated, map[string]any{"booking_id": 55})
	fb.on(http.MethodPost, "/create-payment/payos", http.StatusOK, map[string]any{"payment_url": "https://pay.example.com/55", "order_code": "OC55"})
	a, out, _, opener := newTestApp(t, fb)

	err := a.run(context.Background(), []string{
		"checkout", "7", "--ticket", "0=2",
		"--name", "Nguyen Van A", "--email", "a@example.com", "--phone", "0901234567",
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"https://pay.example.com/55"}, opener.urls)
	assert.Contains(t, out.String(), "Booking 55 created for 200000")
	assert.Contains(t, out.String(), "OC55")
	assert.Equal(t, "/my-bookings", a.nav.CurrentPath())
}

func TestCheckout_SoldOutTicketRejected(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/events/7", http.StatusOK, eventBody())
	a, _, _, opener := newTestApp(t, fb)

	err := a.run(context.Background(), []string{
		"checkout", "7", "--ticket", "1=1",
		"--name", "Nguyen Van A", "--email", "a@example.com", "--phone", "0901234567",
	})

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "tickets", validationErr.Field)
	assert.Zero(t, fb.count(http.MethodPost, "/bookings"))
	assert.Empty(t, opener.urls)
}

func TestBookings_ExpiredSessionPrintsHint(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/bookings/my-bookings", http.StatusUnauthorized, map[string]any{"message": "JWT expired"})
	a, out, store, _ := newTestApp(t, fb)

	err := a.run(context.Background(), []string{"bookings"})

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Empty(t, store.Token())
	assert.Contains(t, out.String(), "ticketctl login")
	assert.Equal(t, "Your session has expired. Please sign in again.", errorText(err))
}

func TestReconcile_NotifiesOnceAfterDelay(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPost, "/success-payment", http.StatusOK, map[string]any{"statusCode": 200, "status": "completed"})
	a, out, _, _ := newTestApp(t, fb)
	var waited []time.Duration
	a.sleep = func(d time.Duration) { waited = append(waited, d) }

	require.NoError(t, a.run(context.Background(), []string{"reconcile", "success", "ABC123"}))

	assert.Equal(t, 1, fb.count(http.MethodPost, "/success-payment"))
	assert.Equal(t, []time.Duration{1500 * time.Millisecond}, waited)
	assert.Contains(t, out.String(), "Payment successful")
}

func TestReconcile_WithoutOrderCodeSendsNothing(t *testing.T) {
	fb := newFakeBackend(t)
	a, out, _, _ := newTestApp(t, fb)

	require.NoError(t, a.run(context.Background(), []string{"reconcile", "cancel"}))

	assert.Zero(t, fb.count(http.MethodPost, "/fail-payment"))
	assert.Contains(t, out.String(), "Payment cancelled")
}

func TestReconcile_FailureStillPrints(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPost, "/fail-payment", http.StatusBadGateway, map[string]any{"message": "upstream down"})
	a, out, _, _ := newTestApp(t, fb)

	require.NoError(t, a.run(context.Background(), []string{"reconcile", "cancel", "ABC123"}))

	assert.Equal(t, 1, fb.count(http.MethodPost, "/fail-payment"))
	assert.Contains(t, out.String(), "Could not confirm order ABC123")
}

func TestAdmin_RequiresAdminProfile(t *testing.T) {
	fb := newFakeBackend(t)
	a, _, _, _ := newTestApp(t, fb)

	err := a.run(context.Background(), []string{"admin", "users"})

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Zero(t, len(fb.calls))
}

func TestAdmin_Approve(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPut, "/admin/events/7/approval", http.StatusOK, map[string]any{"success": true})
	a, out, store, _ := newTestApp(t, fb)
	require.NoError(t, store.SetProfile(auth.Profile{UserID: 1, Role: models.UserRoleAdmin}))

	require.NoError(t, a.run(context.Background(), []string{"admin", "approve", "7", "approved"}))

	assert.Equal(t, 1, fb.count(http.MethodPut, "/admin/events/7/approval"))
	assert.Contains(t, out.String(), "Event 7 is now Approved")
}

func TestAdmin_BookingStatusNeedsReason(t *testing.T) {
	fb := newFakeBackend(t)
	a, _, store, _ := newTestApp(t, fb)
	require.NoError(t, store.SetProfile(auth.Profile{UserID: 1, Role: models.UserRoleAdmin}))

	err := a.run(context.Background(), []string{"admin", "booking-status", "9", "cancelled"})

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "reason", validationErr.Field)
	assert.Zero(t, len(fb.calls))
}
