package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"event-ticketing-storefront/internal/auth"
	"event-ticketing-storefront/internal/models"
)

type authView struct {
	Message string       `json:"message,omitempty"`
	User    auth.Profile `json:"user"`
}

// Login signs in and stores the token in the cookie session
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.signIn(w, r, false)
}

// Register creates an account and signs in when the backend returns a token
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.signIn(w, r, true)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, register bool) {
	var creds models.Credentials
	if err := decodeBody(w, r, &creds); err != nil {
		h.fail(w, r, nil, err)
		return
	}

	session, nav := h.session(r)
	var (
		resp *models.AuthResponse
		err  error
	)
	if register {
		resp, err = session.Register(r.Context(), creds)
	} else {
		resp, err = session.Login(r.Context(), creds)
	}
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}

	status := http.StatusOK
	if register {
		status = http.StatusCreated
	}
	writeJSON(w, status, Response{Success: true, Data: authView{Message: resp.Message, User: session.Store().Profile()}})
}

// Logout always clears the cookie session, even when the backend call fails
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session, _ := h.session(r)
	if err := session.Logout(r.Context()); err != nil {
		h.logger.Warn("Failed to clear session on logout", zap.Error(err))
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Signed out"})
}

// Status reports whether the backend still accepts the session's token
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	session, _ := h.session(r)
	authenticated := session.IsAuthenticated(r.Context())

	view := map[string]any{"authenticated": authenticated}
	if authenticated {
		view["user"] = session.Store().Profile()
	}
	ok(w, view)
}

// ForgotPassword asks the backend to send an OTP
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		h.fail(w, r, nil, err)
		return
	}
	if body.Email == "" {
		h.fail(w, r, nil, models.NewValidationError("email", "email is required"))
		return
	}

	session, nav := h.session(r)
	resp, err := session.ForgotPassword(r.Context(), body.Email)
	h.authReply(w, r, nav, resp, err)
}

// VerifyOTP checks the emailed one-time code
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var body models.OTPVerification
	if err := decodeBody(w, r, &body); err != nil {
		h.fail(w, r, nil, err)
		return
	}

	session, nav := h.session(r)
	resp, err := session.VerifyOTP(r.Context(), body)
	h.authReply(w, r, nav, resp, err)
}

// ResetPassword sets a new password after OTP verification
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body models.PasswordReset
	if err := decodeBody(w, r, &body); err != nil {
		h.fail(w, r, nil, err)
		return
	}

	session, nav := h.session(r)
	resp, err := session.ResetPassword(r.Context(), body)
	h.authReply(w, r, nav, resp, err)
}

func (h *Handler) authReply(w http.ResponseWriter, r *http.Request, nav *requestNavigator, resp *models.AuthResponse, err error) {
	if err != nil {
		h.fail(w, r, nav, err)
		return
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Message: resp.Message})
}
