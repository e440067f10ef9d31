package handlers

import (
	"net/http"

	"event-ticketing-storefront/internal/models"
	"event-ticketing-storefront/internal/services"
)

// TicketRequest selects a quantity of the ticket type at Index
type TicketRequest struct {
	Index    int `json:"index"`
	Quantity int `json:"quantity"`
}

// CheckoutRequest is the body of POST /events/{id}/checkout
type CheckoutRequest struct {
	Contact  models.Contact  `json:"contact"`
	Tickets  []TicketRequest `json:"tickets"`
	Provider string          `json:"provider"`
}

// Checkout books the selected tickets and returns the provider URL. The
// booking stays pending until the provider redirects back.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	eventID, err := intParam(r, "id")
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}

	var req CheckoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, nil, err)
		return
	}

	provider := h.defaultProvider
	if req.Provider != "" {
		parsed, err := models.ParsePaymentProvider(req.Provider)
		if err != nil {
			h.fail(w, r, nil, models.NewValidationError("provider", err.Error()))
			return
		}
		provider = parsed
	}

	session, nav := h.session(r)
	event, err := session.GetEvent(r.Context(), eventID)
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}

	selection := models.NewSelection(event)
	for _, ticket := range req.Tickets {
		if !selection.SetQuantity(ticket.Index, ticket.Quantity) {
			h.fail(w, r, nil, models.NewValidationError("tickets", "requested quantity is not available"))
			return
		}
	}

	checkout := services.NewCheckoutService(session, h.flows, nil, h.logger)
	result, err := checkout.Checkout(r.Context(), nil, services.CheckoutInput{
		BookingInput: services.BookingInput{Event: event, Contact: req.Contact, Selection: selection},
		Provider:     provider,
	})
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}

	writeJSON(w, http.StatusCreated, Response{Success: true, Data: result})
}
