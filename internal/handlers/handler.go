package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"event-ticketing-storefront/internal/backend"
	"event-ticketing-storefront/internal/middleware"
	"event-ticketing-storefront/internal/models"
	"event-ticketing-storefront/internal/services"
)

const maxBodySize = 1 << 20

// Handler serves the storefront routes. Each request gets its own backend
// session bound to the caller's cookie.
type Handler struct {
	client            *backend.Client
	flows             *services.FlowService
	logger            *zap.Logger
	defaultProvider   models.PaymentProvider
	confirmationDelay time.Duration
}

// Options tunes the checkout behaviour of the handlers
type Options struct {
	DefaultProvider   models.PaymentProvider
	ConfirmationDelay time.Duration
}

// New creates the storefront handlers. flows may be nil.
func New(client *backend.Client, flows *services.FlowService, opts Options, logger *zap.Logger) *Handler {
	if opts.DefaultProvider == "" {
		opts.DefaultProvider = models.ProviderPayOS
	}
	return &Handler{
		client:            client,
		flows:             flows,
		logger:            logger,
		defaultProvider:   opts.DefaultProvider,
		confirmationDelay: opts.ConfirmationDelay,
	}
}

// requestNavigator records where the 401 interceptor wants the caller to go
type requestNavigator struct {
	current string
	target  string
}

func (n *requestNavigator) CurrentPath() string { return n.current }

func (n *requestNavigator) Replace(path string) { n.target = path }

// session binds a backend session to the request's cookie session
func (h *Handler) session(r *http.Request) (*backend.Session, *requestNavigator) {
	nav := &requestNavigator{current: r.URL.Path}
	return h.client.WithSession(middleware.GetSession(r.Context()), nav), nav
}

// Response is the common JSON envelope
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Field   string `json:"field,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Data: data})
}

// fail renders err. When the interceptor asked for navigation the caller is
// redirected instead.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, nav *requestNavigator, err error) {
	if nav != nil && nav.target != "" && nav.target != r.URL.Path {
		http.Redirect(w, r, nav.target, http.StatusSeeOther)
		return
	}

	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}

	resp := Response{Success: false, Error: models.UserMessage(err)}
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		resp.Field = validationErr.Field
	}
	writeJSON(w, status, resp)
}

func errorStatus(err error) int {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	if errors.Is(err, models.ErrEventNotFound) {
		return http.StatusNotFound
	}

	var paymentErr *models.PaymentInitiationError
	if errors.As(err, &paymentErr) {
		if errors.Is(err, models.ErrUnauthorized) {
			return http.StatusUnauthorized
		}
		return http.StatusBadGateway
	}

	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case models.KindUnauthorized:
			if apiErr.Status == http.StatusForbidden {
				return http.StatusForbidden
			}
			return http.StatusUnauthorized
		case models.KindInvalidRequest:
			if apiErr.Status >= 400 && apiErr.Status < 500 {
				return apiErr.Status
			}
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeBody reads a JSON body; malformed input is a validation error
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return models.NewValidationError("body", fmt.Sprintf("invalid request body: %v", err))
	}
	return nil
}

func intParam(r *http.Request, name string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id <= 0 {
		return 0, models.NewValidationError(name, "must be a positive number")
	}
	return id, nil
}

func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	if v < 0 {
		return 0
	}
	return v
}
