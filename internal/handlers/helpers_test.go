package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"event-ticketing-storefront/internal/auth"
	"event-ticketing-storefront/internal/backend"
	"event-ticketing-storefront/internal/middleware"
	"event-ticketing-storefront/internal/repositories"
	"event-ticketing-storefront/internal/services"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// fakeBackend stands in for the REST backend
type fakeBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []recorded
	handlers map[string]http.HandlerFunc
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	f := &fakeBackend{handlers: map[string]http.HandlerFunc{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, recorded{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
		h, ok := f.handlers[r.Method+" "+r.URL.Path]
		f.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "no route"})
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeBackend) reply(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, status, body)
	}
}

func (f *fakeBackend) calls(method, path string) []recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recorded
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeBackend) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// testEnv wires the handlers to a fake backend and an in-memory flow store
type testEnv struct {
	backend *fakeBackend
	handler *Handler
	flows   *services.FlowService
	store   *auth.MemoryStore
	router  chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	fb := newFakeBackend(t)
	client := backend.NewClient(fb.server.URL, 5*time.Second, zap.NewNop())
	flows := services.NewFlowService(repositories.NewMemoryFlowStore(), time.Hour, zap.NewNop())
	h := New(client, flows, Options{ConfirmationDelay: 1500 * time.Millisecond}, zap.NewNop())

	store := auth.NewMemoryStore()
	require.NoError(t, store.SetToken("test-token"))

	r := chi.NewRouter()
	r.Get("/", h.Home)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/events", h.ListEvents)
	r.Get("/events/{id}", h.GetEvent)
	r.Post("/events/{id}/checkout", h.Checkout)
	r.Get("/my-bookings", h.MyBookings)
	r.Post("/bookings/{id}/cancel", h.CancelBooking)
	r.Get("/success", h.PaymentSuccess)
	r.Get("/cancel", h.PaymentCancel)
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Post("/profile/password", h.ChangePassword)
	r.Get("/admin/bookings", h.AdminListBookings)
	r.Put("/admin/events/{id}/approval", h.AdminUpdateEventApproval)
	r.Get("/admin/dashboard", h.AdminDashboard)

	return &testEnv{backend: fb, handler: h, flows: flows, store: store, router: r}
}

// do runs a request through the router with the env's session attached
func (e *testEnv) do(method, target string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	req = req.WithContext(middleware.WithSession(req.Context(), e.store))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// envelope decodes a Response with its data left raw
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Field   string          `json:"field"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data), string(env.Data))
	}
	return env
}

func concertEventJSON() map[string]any {
	return map[string]any{
		"success": true,
		"event": map[string]any{
			"id":       7,
			"title":    "Summer Concert",
			"category": "Music",
			"date":     "2026-12-01",
			"time":     "19:00",
			"location": "Hanoi Opera House",
			"ticket_types": []map[string]any{
				{"id": 11, "typeName": "VIP", "price": 100000, "quantity": 10},
				{"id": 12, "typeName": "General", "price": 50000, "quantity": 100, "availableQuantity": 3},
			},
		},
	}
}
