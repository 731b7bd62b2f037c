package middleware

import (
	"context"
	"net/http"

	"github.com/conley21p/alpine-outdoor-living/internal/auth"
	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

// contextKey is an unexported type used for context keys in this package.
type contextKey string

// UserContextKey is the context key used to store the authenticated user.
const UserContextKey contextKey = "user"

// RequireAuth returns middleware that enforces admin authentication.
// It reads the "session_token" cookie, validates the session, and stores
// the user in the request context. If the session is invalid or missing,
// it redirects to /admin/login.
func RequireAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_token")
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			user, err := authService.ValidateSession(r.Context(), cookie.Value)
			if err != nil {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that attempts to authenticate the user
// but does not redirect if the session is invalid. If a valid session exists,
// the user is stored in the request context.
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("session_token")
			if err == nil && cookie.Value != "" {
				user, err := authService.ValidateSession(r.Context(), cookie.Value)
				if err == nil {
					ctx := context.WithValue(r.Context(), UserContextKey, user)
					r = r.WithContext(ctx)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext extracts the authenticated user from the context.
// Returns nil if no user is present.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(UserContextKey).(*models.User)
	return user
}
