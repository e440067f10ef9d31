package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"event-ticketing-storefront/internal/auth"
)

// RootPath is where unauthenticated callers are sent
const RootPath = "/"

// AuthMiddleware gates routes on the session's bearer token
type AuthMiddleware struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{logger: logger, now: time.Now}
}

// RequireAuth redirects to the root route when there is no token or the
// token's exp claim has passed. An expired token is cleared first.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := GetSession(r.Context())
		token := session.Token()

		if token != "" && auth.TokenExpired(token, m.now()) {
			if err := session.Clear(); err != nil {
				m.logger.Warn("Failed to clear expired session", zap.Error(err))
			}
			token = ""
		}

		if token == "" {
			redirectToRoot(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin allows only sessions whose cached role is admin. Use after
// RequireAuth.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !GetSession(r.Context()).Profile().IsAdmin() {
			writeError(w, http.StatusForbidden, "You do not have permission to access this resource.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func redirectToRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == RootPath {
		writeError(w, http.StatusUnauthorized, "Please sign in.")
		return
	}
	http.Redirect(w, r, RootPath, http.StatusSeeOther)
}
