package handlers

import (
	"net/http"

	"event-ticketing-storefront/internal/middleware"
)

// Home is the root route and the target of forced re-authentication
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSession(r.Context())
	profile := session.Profile()

	ok(w, map[string]any{
		"service":       "event-ticketing-storefront",
		"authenticated": session.Token() != "",
		"user":          profile.FullName,
		"links": map[string]string{
			"events":      "/events",
			"login":       "/auth/login",
			"my_bookings": "/my-bookings",
		},
	})
}
