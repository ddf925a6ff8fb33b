// Package session manages the two client-held cookies: the long-lived user
// session and the short-lived login-info scratch session that shuttles state
// across the login/signup redirect chain.
package session

import (
	"net/http"
	"time"

	"github.com/homestead/homestead-go/internal/crypto"
)

const sessionCookie = "homestead_session"

// Store issues and resolves the user session cookie.
type Store struct {
	key    []byte
	expiry time.Duration
	secure bool
}

// NewStore creates a session Store. The signing key is derived from the
// master secret so session cookies cannot validate as magic links or scratch
// cookies.
func NewStore(masterSecret string, expiry time.Duration, secure bool) *Store {
	return &Store{
		key:    crypto.DeriveKey(masterSecret, crypto.PurposeSession),
		expiry: expiry,
		secure: secure,
	}
}

// Create issues a new session cookie for the given user.
func (s *Store) Create(w http.ResponseWriter, userID int64) error {
	token, err := crypto.GenerateSessionToken(userID, s.key, s.expiry)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.expiry.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read resolves the request's session cookie to a user ID. Every failure
// (missing cookie, bad signature, expiry) degrades to anonymous; a forged or
// stale cookie is never a hard error.
func (s *Store) Read(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return 0, false
	}
	userID, err := crypto.ValidateSessionToken(cookie.Value, s.key)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// Destroy clears the session cookie.
func (s *Store) Destroy(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
