package handler

import (
	"errors"
	"log/slog"
	"math/rand"
	"net/http"

	"github.com/homestead/homestead-go/internal/model"
	"github.com/homestead/homestead-go/internal/repository"
	"github.com/homestead/homestead-go/internal/service"
	"github.com/homestead/homestead-go/internal/session"
)

const (
	emailSentMessage  = "Email sent."
	invalidEmailError = "A valid email is required"
	invalidLinkError  = "Sign in link invalid. Please request a new one."
	invalidMagicError = "Invalid magic link. Try again."
	signupFailedError = "There was a problem creating your account. Please try again."
	sendFailedError   = "Something went wrong sending the email. Try again."
	loginFailedError  = "There was a problem logging you in. Please try again."
)

// AuthHandler handles the login, magic-link callback, signup, and logout
// routes.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Store
	logins   *session.LoginStore
	baseURL  string
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *session.Store, logins *session.LoginStore, baseURL string) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, logins: logins, baseURL: baseURL}
}

// HandleLoginPage handles GET /login requests: it drains the scratch
// session's pending email and one-shot flash values into the view.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	loginSession := h.logins.Get(r)

	data := loginData{
		Email:   loginSession.Email(),
		Message: loginSession.Message(),
		Error:   loginSession.Error(),
	}

	if err := loginSession.Commit(w); err != nil {
		slog.Error("committing login session", "error", err)
	}
	render(w, http.StatusOK, "login", data)
}

// HandleLoginSubmit handles POST /login requests: validate the email, issue
// a magic-link token, and dispatch the login email.
func (h *AuthHandler) HandleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	loginSession := h.logins.Get(r)

	email := r.FormValue("email")
	if email != "" {
		loginSession.SetEmail(email)
	}

	if !service.ValidEmail(email) {
		loginSession.FlashError(invalidEmailError)
		h.commitAndRedirect(w, loginSession, "/login", http.StatusBadRequest)
		return
	}

	if err := h.auth.SendToken(r.Context(), email, h.baseURL); err != nil {
		slog.Error("sending login token", "error", err)
		loginSession.FlashError(sendFailedError)
		h.commitAndRedirect(w, loginSession, "/login", http.StatusBadRequest)
		return
	}

	loginSession.FlashMessage(emailSentMessage)
	if err := loginSession.Commit(w); err != nil {
		slog.Error("committing login session", "error", err)
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// HandleMagic handles GET /magic requests, the link followed from the login
// email. A valid token either logs an existing user straight in or parks the
// email in the scratch session and sends the visitor to signup.
func (h *AuthHandler) HandleMagic(w http.ResponseWriter, r *http.Request) {
	loginSession := h.logins.Get(r)

	token := r.URL.Query().Get("token")
	email, err := h.auth.ValidateToken(token)
	if err != nil {
		loginSession.Clean()
		loginSession.FlashError(invalidLinkError)
		if err := loginSession.Commit(w); err != nil {
			slog.Error("committing login session", "error", err)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	user, err := h.auth.UserByEmail(r.Context(), email)
	switch {
	case err == nil:
		if err := h.sessions.Create(w, user.ID); err != nil {
			slog.Error("creating session", "error", err)
			renderError(w)
			return
		}
		loginSession.Destroy(w)
		http.Redirect(w, r, "/me", http.StatusSeeOther)

	case errors.Is(err, repository.ErrUserNotFound):
		// First visit for this address: carry the email and the raw link
		// into the signup step, which re-validates before creating the
		// account.
		link, linkErr := h.auth.MagicLink(email, h.baseURL)
		if linkErr != nil {
			slog.Error("minting signup link", "error", linkErr)
			renderError(w)
			return
		}
		loginSession.SetEmail(email)
		loginSession.SetMagicLink(link)
		if err := loginSession.Commit(w); err != nil {
			slog.Error("committing login session", "error", err)
		}
		http.Redirect(w, r, "/signup", http.StatusSeeOther)

	default:
		slog.Error("looking up user for magic link", "error", err)
		loginSession.FlashError(loginFailedError)
		if err := loginSession.Commit(w); err != nil {
			slog.Error("committing login session", "error", err)
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// HandleSignupPage handles GET /signup requests. Arriving without a pending
// email means the visitor skipped the magic-link step, so the flow restarts.
func (h *AuthHandler) HandleSignupPage(w http.ResponseWriter, r *http.Request) {
	loginSession := h.logins.Get(r)

	email := loginSession.Email()
	if email == "" {
		loginSession.Clean()
		loginSession.FlashError(invalidMagicError)
		h.commitAndRedirect(w, loginSession, "/login", http.StatusSeeOther)
		return
	}

	if err := loginSession.Commit(w); err != nil {
		slog.Error("committing login session", "error", err)
	}
	render(w, http.StatusOK, "signup", signupData{
		Email: email,
		Teams: shuffledTeams(),
	})
}

// HandleSignupSubmit handles POST /signup requests: re-validate the pending
// magic link, validate the form, create the user, and open a session.
func (h *AuthHandler) HandleSignupSubmit(w http.ResponseWriter, r *http.Request) {
	loginSession := h.logins.Get(r)

	email, err := h.auth.ValidateLink(loginSession.MagicLink())
	if err != nil {
		loginSession.Clean()
		loginSession.FlashError(invalidLinkError)
		h.commitAndRedirect(w, loginSession, "/login", http.StatusSeeOther)
		return
	}

	form := model.SignupForm{
		FirstName: r.FormValue("firstName"),
		Team:      r.FormValue("team"),
	}

	if errs := service.ValidateSignupForm(form); errs.Any() {
		if err := loginSession.Commit(w); err != nil {
			slog.Error("committing login session", "error", err)
		}
		render(w, http.StatusBadRequest, "signup", signupData{
			Email:  email,
			Teams:  shuffledTeams(),
			Fields: form,
			Errors: errs,
		})
		return
	}

	user, err := h.auth.CompleteSignup(r.Context(), email, form)
	if err != nil {
		slog.Error("completing signup", "email", email, "error", err)
		loginSession.FlashError(signupFailedError)
		h.commitAndRedirect(w, loginSession, "/login", http.StatusSeeOther)
		return
	}

	if err := h.sessions.Create(w, user.ID); err != nil {
		slog.Error("creating session", "error", err)
		renderError(w)
		return
	}
	loginSession.Destroy(w)
	http.Redirect(w, r, "/me", http.StatusSeeOther)
}

// HandleLogout handles GET /logout requests.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Destroy(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) commitAndRedirect(w http.ResponseWriter, loginSession *session.LoginSession, url string, status int) {
	if err := loginSession.Commit(w); err != nil {
		slog.Error("committing login session", "error", err)
	}
	redirectWithStatus(w, url, status)
}

// shuffledTeams randomizes the team order so the form doesn't bias the first
// option.
func shuffledTeams() []model.Team {
	teams := model.Teams()
	rand.Shuffle(len(teams), func(i, j int) {
		teams[i], teams[j] = teams[j], teams[i]
	})
	return teams
}
