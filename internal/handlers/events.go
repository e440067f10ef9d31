package handlers

import (
	"net/http"

	"event-ticketing-storefront/internal/models"
)

// ListEvents lists the catalog with optional category/search filters
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.EventFilter{
		Search: q.Get("search"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
	if category := q.Get("category"); category != "" {
		filter.Category = string(models.NormalizeCategory(category))
	}

	session, nav := h.session(r)
	page, err := session.ListEvents(r.Context(), filter)
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, page)
}

// GetEvent returns one event with its ticket types
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		h.fail(w, r, nil, err)
		return
	}

	session, nav := h.session(r)
	event, err := session.GetEvent(r.Context(), id)
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, event)
}
