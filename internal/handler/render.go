// Package handler converts HTTP requests into service calls and renders the
// minimal HTML views. Layout and styling live with the frontend; these
// templates only carry the data the flow needs.
package handler

import (
	"html/template"
	"log/slog"
	"net/http"

	"github.com/homestead/homestead-go/internal/model"
)

var pageTemplates = template.Must(template.New("views").Parse(`
{{define "login"}}<!doctype html>
<html><body>
<h1>Log in to your account.</h1>
{{if .Message}}<p id="success-message">{{.Message}}</p>{{end}}
{{if .Error}}<p id="error-message">{{.Error}}</p>{{end}}
<form action="/login" method="post">
<label for="email-address">Email address</label>
<input id="email-address" name="email" type="email" value="{{.Email}}" required placeholder="Email address">
<button type="submit">Email a login link</button>
</form>
</body></html>{{end}}

{{define "signup"}}<!doctype html>
<html><body>
<h1>Let&rsquo;s start with choosing a team.</h1>
<form method="post">
{{if .Errors.Team}}<p id="team-error">{{.Errors.Team}}</p>{{end}}
<fieldset><legend>Team</legend>
{{range .Teams}}<label><input type="radio" name="team" value="{{.}}"{{if eq (printf "%s" .) $.Fields.Team}} checked{{end}}>{{.}}</label>
{{end}}</fieldset>
{{if .Errors.FirstName}}<p id="firstName-error">{{.Errors.FirstName}}</p>{{end}}
<label>First name<input name="firstName" value="{{.Fields.FirstName}}" required></label>
<label>Email<input name="email" value="{{.Email}}" readonly disabled></label>
<button type="submit">Create account</button>
</form>
</body></html>{{end}}

{{define "profile"}}<!doctype html>
<html><body>
<h1>Here&rsquo;s your profile.</h1>
{{if .Message}}<p id="profile-message">{{.Message}}</p>{{end}}
{{if .GeneralError}}<p id="profile-form-error">{{.GeneralError}}</p>{{end}}
<form id="profile-form" action="/me" method="post">
<input type="hidden" name="actionId" value="change details">
{{if .FirstNameError}}<p id="firstName-error">{{.FirstNameError}}</p>{{end}}
<label>First name<input name="firstName" value="{{.User.FirstName}}" required></label>
<label>Email<input name="email" value="{{.User.Email}}" readonly disabled></label>
<button type="submit">Save changes</button>
</form>
{{if .User.DiscordID}}
<p><a href="https://discord.com/users/{{.User.DiscordID}}">connected</a></p>
<form action="/me" method="post">
<input type="hidden" name="actionId" value="delete discord connection">
<button type="submit" aria-label="remove connection">remove connection</button>
</form>
{{else}}
<p><a href="{{.DiscordAuthorizeURL}}">Connect to Discord</a></p>
{{end}}
<p>Chosen team: {{.User.Team}}</p>
<p>Need to login somewhere else? Scan this link as a QR code on the other device:</p>
<p id="qr-login-link">{{.QRLoginLink}}</p>
<p><a href="/logout">logout</a></p>
</body></html>{{end}}

{{define "page"}}<!doctype html>
<html><body>
<a href="/">Back to home</a>
<h1>{{.Page.Title}}</h1>
{{if .Page.Description}}<p>{{.Page.Description}}</p>{{end}}
{{if .Page.BannerURL}}<img src="{{.Page.BannerURL}}" alt="{{.Page.BannerAlt}}">{{end}}
<article>{{.Page.Body}}</article>
</body></html>{{end}}

{{define "notfound"}}<!doctype html>
<html><body>
<h1>404 &mdash; we couldn&rsquo;t find that page.</h1>
<p>Here are some posts you might enjoy instead:</p>
<ul>
{{range .Recommendations}}<li><a href="/blog/{{.Slug}}">{{.Title}}</a></li>
{{end}}</ul>
</body></html>{{end}}

{{define "home"}}<!doctype html>
<html><body>
<h1>Welcome.</h1>
<ul>
{{range .Items}}<li><a href="/blog/{{.Slug}}">{{.Title}}</a> &mdash; {{.Description}}</li>
{{end}}</ul>
</body></html>{{end}}

{{define "error"}}<!doctype html>
<html><body>
<h1>Something went wrong.</h1>
<p>Sorry about that. Try again in a bit.</p>
</body></html>{{end}}
`))

func render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplates.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("template render failed", "template", name, "error", err)
	}
}

// renderError shows the generic failure view. Detail stays in the logs.
func renderError(w http.ResponseWriter) {
	render(w, http.StatusInternalServerError, "error", nil)
}

// redirectWithStatus emits a redirect with a non-3xx status code. The login
// flow answers invalid submissions with a 400 that still carries a Location
// back to the entry point.
func redirectWithStatus(w http.ResponseWriter, url string, status int) {
	w.Header().Set("Location", url)
	w.WriteHeader(status)
}

type loginData struct {
	Email   string
	Message string
	Error   string
}

type signupData struct {
	Email  string
	Teams  []model.Team
	Fields model.SignupForm
	Errors model.SignupErrors
}

type profileData struct {
	User                *model.User
	Message             string
	GeneralError        string
	FirstNameError      string
	DiscordAuthorizeURL string
	QRLoginLink         string
}

type pageData struct {
	Page            *model.Page
	Recommendations []model.ListItem
}

type notFoundData struct {
	Recommendations []model.ListItem
}

type homeData struct {
	Items []model.ListItem
}
