package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"event-ticketing-storefront/internal/handlers"
	"event-ticketing-storefront/internal/middleware"
)

// RouterConfig carries everything the router wires together
type RouterConfig struct {
	Handler        *handlers.Handler
	Sessions       sessions.Store
	CookieName     string
	AllowedOrigins []string
	LoginLimiter   *middleware.LoginRateLimiter
	Logger         *zap.Logger
}

// NewRouter builds the storefront routes
func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handler
	authMiddleware := middleware.NewAuthMiddleware(cfg.Logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer(cfg.Logger))
	r.Use(middleware.SecurityHeadersMiddleware)
	r.Use(middleware.CORSMiddleware(middleware.DefaultCORSConfig(cfg.AllowedOrigins)))
	r.Use(middleware.SessionLoader(cfg.Sessions, cfg.CookieName))

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	// Public routes
	r.Get("/", h.Home)
	r.Get("/events", h.ListEvents)
	r.Get("/events/{id}", h.GetEvent)

	// Provider redirects land here without any guarantee of a session
	r.Get("/success", h.PaymentSuccess)
	r.Get("/cancel", h.PaymentCancel)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", h.Logout)
		r.Get("/status", h.Status)

		// Credential endpoints share one attempt budget per client IP
		r.Group(func(r chi.Router) {
			if cfg.LoginLimiter != nil {
				r.Use(middleware.LoginRateLimit(cfg.LoginLimiter))
			}
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
			r.Post("/forgot-password", h.ForgotPassword)
			r.Post("/verify-otp", h.VerifyOTP)
			r.Post("/reset-password", h.ResetPassword)
		})
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)

		r.Post("/events/{id}/checkout", h.Checkout)
		r.Get("/my-bookings", h.MyBookings)
		r.Post("/bookings/{id}/cancel", h.CancelBooking)

		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Post("/profile/password", h.ChangePassword)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Use(authMiddleware.RequireAdmin)

		r.Get("/dashboard", h.AdminDashboard)

		r.Get("/users", h.AdminListUsers)
		r.Get("/users/{id}", h.AdminGetUser)
		r.Put("/users/{id}", h.AdminUpdateUser)
		r.Delete("/users/{id}", h.AdminDeleteUser)

		r.Get("/events", h.AdminListEvents)
		r.Delete("/events/{id}", h.AdminDeleteEvent)
		r.Put("/events/{id}/approval", h.AdminUpdateEventApproval)

		r.Get("/bookings", h.AdminListBookings)
		r.Get("/bookings/{id}", h.AdminGetBooking)
		r.Put("/bookings/{id}/status", h.AdminUpdateBookingStatus)

		r.Get("/payments", h.AdminListPayments)
	})

	return r
}
