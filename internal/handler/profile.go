package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/homestead/homestead-go/internal/discord"
	"github.com/homestead/homestead-go/internal/middleware"
	"github.com/homestead/homestead-go/internal/service"
)

// Form action ids on the profile page.
const (
	actionChangeDetails = "change details"
	actionDeleteDiscord = "delete discord connection"
)

// ProfileHandler handles the profile page and the Discord linking callback.
type ProfileHandler struct {
	profile *service.ProfileService
	auth    *service.AuthService
	discord *discord.Client
	baseURL string
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profile *service.ProfileService, auth *service.AuthService, dc *discord.Client, baseURL string) *ProfileHandler {
	return &ProfileHandler{profile: profile, auth: auth, discord: dc, baseURL: baseURL}
}

// HandleProfilePage handles GET /me requests. The view carries a fresh magic
// link for the user's email; the client renders it as a QR code for logging
// in on another device.
func (h *ProfileHandler) HandleProfilePage(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	qrLink, err := h.auth.MagicLink(user.Email, h.baseURL)
	if err != nil {
		slog.Error("minting qr login link", "error", err)
		renderError(w)
		return
	}

	render(w, http.StatusOK, "profile", profileData{
		User:                user,
		Message:             r.URL.Query().Get("message"),
		DiscordAuthorizeURL: h.discord.AuthorizeURL(h.baseURL),
		QRLoginLink:         qrLink,
	})
}

// HandleProfileSubmit handles POST /me requests, dispatching on the actionId
// form field.
func (h *ProfileHandler) HandleProfileSubmit(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	switch r.FormValue("actionId") {
	case actionDeleteDiscord:
		if err := h.profile.DisconnectDiscord(r.Context(), user); err != nil {
			slog.Error("removing discord connection", "user_id", user.ID, "error", err)
			h.renderProfileError(w, r, "There was a problem removing the connection.")
			return
		}

	case actionChangeDetails:
		err := h.profile.ChangeDetails(r.Context(), user, r.FormValue("firstName"))
		if errors.Is(err, service.ErrFirstNameRequired) {
			qrLink, linkErr := h.auth.MagicLink(user.Email, h.baseURL)
			if linkErr != nil {
				slog.Error("minting qr login link", "error", linkErr)
				renderError(w)
				return
			}
			render(w, http.StatusBadRequest, "profile", profileData{
				User:                user,
				FirstNameError:      err.Error(),
				DiscordAuthorizeURL: h.discord.AuthorizeURL(h.baseURL),
				QRLoginLink:         qrLink,
			})
			return
		}
		if err != nil {
			slog.Error("changing profile details", "user_id", user.ID, "error", err)
			h.renderProfileError(w, r, "There was a problem saving your details.")
			return
		}
	}

	http.Redirect(w, r, "/me", http.StatusSeeOther)
}

// HandleDiscordCallback handles GET /discord/callback requests. Success and
// failure both land back on the profile with a message; linking is a
// secondary integration and never hard-fails the request.
func (h *ProfileHandler) HandleDiscordCallback(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	member, err := h.profile.ConnectDiscord(r.Context(), user, code, h.baseURL)
	if err != nil {
		http.Redirect(w, r, profileURL("🚨 "+safeConnectError(err)), http.StatusSeeOther)
		return
	}

	msg := "✅ Successfully connected your account with " + member.Username + " on discord."
	http.Redirect(w, r, profileURL(msg), http.StatusSeeOther)
}

// safeConnectError returns provider-flow errors that are safe to show
// verbatim; anything else is logged and replaced with a generic message so
// provider internals never leak to the user.
func safeConnectError(err error) string {
	switch {
	case errors.Is(err, discord.ErrMissingCode), errors.Is(err, discord.ErrExchangeFailed):
		return err.Error()
	default:
		slog.Error("discord connect failed", "error", err)
		return "Connecting your account failed. Please try again."
	}
}

func (h *ProfileHandler) renderProfileError(w http.ResponseWriter, r *http.Request, msg string) {
	user, _ := middleware.UserFromContext(r.Context())
	render(w, http.StatusInternalServerError, "profile", profileData{
		User:                user,
		GeneralError:        msg,
		DiscordAuthorizeURL: h.discord.AuthorizeURL(h.baseURL),
	})
}

func profileURL(message string) string {
	return "/me?message=" + url.QueryEscape(message)
}
