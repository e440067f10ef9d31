package handlers

import (
	"net/http"

	"event-ticketing-storefront/internal/services"
)

// reconcileView is the terminal page payload
type reconcileView struct {
	*services.ReconcileResult
	DisplayAfterMS int64  `json:"display_after_ms"`
	Next           string `json:"next,omitempty"`
}

// PaymentSuccess handles the provider's success redirect
func (h *Handler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, true)
}

// PaymentCancel handles the provider's cancel redirect
func (h *Handler) PaymentCancel(w http.ResponseWriter, r *http.Request) {
	h.reconcile(w, r, false)
}

// reconcile always renders 200; a failed notification is reported in the
// payload only
func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request, success bool) {
	orderCode := r.URL.Query().Get("order_code")

	session, nav := h.session(r)
	reconciler := services.NewReconciler(session, h.flows, h.logger)

	var result *services.ReconcileResult
	if success {
		result, _ = reconciler.Success(r.Context(), orderCode)
	} else {
		result, _ = reconciler.Cancel(r.Context(), orderCode)
	}

	ok(w, reconcileView{
		ReconcileResult: result,
		DisplayAfterMS:  h.confirmationDelay.Milliseconds(),
		Next:            nav.target,
	})
}
