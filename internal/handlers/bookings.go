package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"event-ticketing-storefront/internal/models"
)

// MyBookings lists the signed-in user's bookings
func (h *Handler) MyBookings(w http.ResponseWriter, r *http.Request) {
	session, nav := h.session(r)
	bookings, err := session.MyBookings(r.Context())
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, bookings)
}

// CancelBooking cancels a pending booking and its checkout flow
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.fail(w, r, nil, models.NewValidationError("id", "booking id is required"))
		return
	}

	session, nav := h.session(r)
	if err := session.CancelBooking(r.Context(), id); err != nil {
		h.fail(w, r, nav, err)
		return
	}

	if h.flows != nil {
		if err := h.flows.CancelBooking(r.Context(), id); err != nil {
			h.logger.Warn("Failed to cancel checkout flow", zap.String("booking_id", id), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Booking cancelled"})
}
