package session

import (
	"net/http"
	"time"

	"github.com/homestead/homestead-go/internal/crypto"
)

const loginCookie = "homestead_login"

// LoginStore loads and persists the login-info scratch session.
type LoginStore struct {
	key    []byte
	expiry time.Duration
	secure bool
}

// NewLoginStore creates a LoginStore. The scratch cookie lives at most as
// long as a magic link stays valid.
func NewLoginStore(masterSecret string, expiry time.Duration, secure bool) *LoginStore {
	return &LoginStore{
		key:    crypto.DeriveKey(masterSecret, crypto.PurposeLoginScratch),
		expiry: expiry,
		secure: secure,
	}
}

// Get loads the scratch session from the request. A missing or invalid
// cookie yields an empty session; the flow restarts cleanly instead of
// erroring on a stale cookie.
func (ls *LoginStore) Get(r *http.Request) *LoginSession {
	sess := &LoginSession{store: ls}
	cookie, err := r.Cookie(loginCookie)
	if err != nil {
		return sess
	}
	payload, err := crypto.DecodeScratch(cookie.Value, ls.key)
	if err != nil {
		return sess
	}
	sess.state = payload
	sess.hadCookie = true
	return sess
}

// LoginSession is the cookie-backed scratch space for one login/signup flow.
// It holds at most one pending email and magic link at a time; concurrent
// tabs share it, last writer wins.
type LoginSession struct {
	store     *LoginStore
	state     crypto.ScratchPayload
	modified  bool
	hadCookie bool
}

// Email returns the pending email address, if any.
func (s *LoginSession) Email() string { return s.state.Email }

// SetEmail stores the pending email address.
func (s *LoginSession) SetEmail(email string) {
	s.state.Email = email
	s.modified = true
}

// MagicLink returns the pending magic link, if any.
func (s *LoginSession) MagicLink() string { return s.state.MagicLink }

// SetMagicLink stores the pending magic link.
func (s *LoginSession) SetMagicLink(link string) {
	s.state.MagicLink = link
	s.modified = true
}

// Message pops the flashed message: it is returned once and cleared.
func (s *LoginSession) Message() string {
	msg := s.state.Message
	if msg != "" {
		s.state.Message = ""
		s.modified = true
	}
	return msg
}

// Error pops the flashed error: it is returned once and cleared.
func (s *LoginSession) Error() string {
	msg := s.state.Error
	if msg != "" {
		s.state.Error = ""
		s.modified = true
	}
	return msg
}

// FlashMessage stores a message for exactly one subsequent read.
func (s *LoginSession) FlashMessage(msg string) {
	s.state.Message = msg
	s.modified = true
}

// FlashError stores an error for exactly one subsequent read.
func (s *LoginSession) FlashError(msg string) {
	s.state.Error = msg
	s.modified = true
}

// Clean clears every field.
func (s *LoginSession) Clean() {
	s.state = crypto.ScratchPayload{}
	s.modified = true
}

// Commit writes the scratch cookie. An empty, never-touched session emits no
// Set-Cookie at all; a session emptied by reads or Clean clears the cookie
// it came from.
func (s *LoginSession) Commit(w http.ResponseWriter) error {
	if s.state.Empty() {
		if s.hadCookie {
			s.clear(w)
		}
		return nil
	}

	value, err := crypto.EncodeScratch(s.state, s.store.key, s.store.expiry)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     loginCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.store.expiry.Seconds()),
		HttpOnly: true,
		Secure:   s.store.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Destroy unconditionally clears the scratch cookie.
func (s *LoginSession) Destroy(w http.ResponseWriter) {
	s.state = crypto.ScratchPayload{}
	s.clear(w)
}

func (s *LoginSession) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     loginCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.store.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
