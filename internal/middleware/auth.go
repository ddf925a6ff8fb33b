package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/homestead/homestead-go/internal/model"
	"github.com/homestead/homestead-go/internal/session"
)

type contextKey string

const userKey contextKey = "user"

// UserLoader resolves a session's user id to the full user record.
type UserLoader interface {
	UserByID(ctx context.Context, id int64) (*model.User, error)
}

// CurrentUser returns middleware that resolves the session cookie to a user
// and stores it on the request context. Every failure (missing cookie, bad
// signature, expired session, vanished user) degrades to anonymous; no
// request is ever rejected here.
func CurrentUser(store *session.Store, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := store.Read(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.UserByID(r.Context(), userID)
			if err != nil {
				slog.Debug("session references unknown user", "user_id", userID, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

// RequireUser redirects anonymous requests to the login entry point.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// RequireAnonymous redirects authenticated requests to the profile; the
// login and signup routes only make sense for visitors without a session.
func RequireAnonymous(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); ok {
			http.Redirect(w, r, "/me", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
