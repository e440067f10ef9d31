package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"

	"event-ticketing-storefront/internal/auth"
)

const sessionKey contextKey = "session"

// SessionLoader binds the request's cookie session to the context as an
// auth.Store
func SessionLoader(store sessions.Store, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := auth.NewCookieSession(store, cookieName, w, r)
			ctx := context.WithValue(r.Context(), sessionKey, auth.Store(session))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSession stores s in ctx
func WithSession(ctx context.Context, s auth.Store) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// GetSession returns the session bound by SessionLoader, or a fresh
// anonymous in-memory session when none is bound
func GetSession(ctx context.Context) auth.Store {
	if s, ok := ctx.Value(sessionKey).(auth.Store); ok && s != nil {
		return s
	}
	return auth.NewMemoryStore()
}
