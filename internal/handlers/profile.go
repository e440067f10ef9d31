package handlers

import (
	"net/http"

	"event-ticketing-storefront/internal/models"
)

// GetProfile returns the signed-in user's profile
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	session, nav := h.session(r)
	profile, err := session.Profile(r.Context())
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	ok(w, profile)
}

// UpdateProfile replaces the profile fields
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var profile models.Profile
	if err := decodeBody(w, r, &profile); err != nil {
		h.fail(w, r, nil, err)
		return
	}

	session, nav := h.session(r)
	if err := session.UpdateProfile(r.Context(), profile); err != nil {
		h.fail(w, r, nav, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Profile updated"})
}

// ChangePassword changes the signed-in user's password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var change models.PasswordChange
	if err := decodeBody(w, r, &change); err != nil {
		h.fail(w, r, nil, err)
		return
	}

	session, nav := h.session(r)
	if err := session.ChangePassword(r.Context(), change); err != nil {
		h.fail(w, r, nav, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Password changed"})
}
