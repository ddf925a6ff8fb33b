package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/homestead/homestead-go/internal/crypto"
	"github.com/homestead/homestead-go/internal/model"
	"github.com/homestead/homestead-go/internal/repository"
)

var (
	ErrInvalidEmail = errors.New("a valid email is required")
	ErrLinkInvalid  = errors.New("sign in link invalid")
)

var emailPattern = regexp.MustCompile(`.+@.+`)

// Mailer dispatches the magic-link email.
type Mailer interface {
	SendMagicLink(ctx context.Context, to, link string) error
}

// Tagger subscribes a new user to the mailing list and returns the
// subscriber id.
type Tagger interface {
	TagSubscriber(ctx context.Context, email, firstName string) (string, error)
}

// AuthService orchestrates the magic-link login and signup flow.
type AuthService struct {
	users       *repository.UserRepository
	mailer      Mailer
	tagger      Tagger
	magicKey    []byte
	magicExpiry time.Duration
}

// NewAuthService creates an AuthService. The magic-link signing key is
// derived from the master secret.
func NewAuthService(users *repository.UserRepository, mailer Mailer, tagger Tagger, masterSecret string, magicExpiry time.Duration) *AuthService {
	return &AuthService{
		users:       users,
		mailer:      mailer,
		tagger:      tagger,
		magicKey:    crypto.DeriveKey(masterSecret, crypto.PurposeMagicLink),
		magicExpiry: magicExpiry,
	}
}

// ValidEmail reports whether the submitted value looks like an email
// address. The check is deliberately loose; possession of the inbox is the
// real credential.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// MagicLink mints a fresh login URL for the given email.
func (s *AuthService) MagicLink(email, domainURL string) (string, error) {
	token, err := crypto.GenerateMagicToken(email, s.magicKey, s.magicExpiry)
	if err != nil {
		return "", fmt.Errorf("generating magic token: %w", err)
	}
	return strings.TrimSuffix(domainURL, "/") + "/magic?token=" + url.QueryEscape(token), nil
}

// SendToken issues a magic-link token for the email and dispatches the login
// email carrying it.
func (s *AuthService) SendToken(ctx context.Context, email, domainURL string) error {
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}

	link, err := s.MagicLink(email, domainURL)
	if err != nil {
		return err
	}

	if err := s.mailer.SendMagicLink(ctx, email, link); err != nil {
		return fmt.Errorf("sending login email: %w", err)
	}

	return nil
}

// ValidateToken checks a raw magic-link token and returns the email it was
// issued for.
func (s *AuthService) ValidateToken(token string) (string, error) {
	return crypto.ValidateMagicToken(token, s.magicKey)
}

// ValidateLink checks a full magic-link URL, as stored in the scratch
// session, and returns the email it was issued for.
func (s *AuthService) ValidateLink(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", ErrLinkInvalid
	}
	token := u.Query().Get("token")
	if token == "" {
		return "", ErrLinkInvalid
	}
	email, err := s.ValidateToken(token)
	if err != nil {
		return "", ErrLinkInvalid
	}
	return email, nil
}

// UserByEmail resolves an existing user for a validated email, if one
// exists.
func (s *AuthService) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.GetByEmail(ctx, email)
}

// UserByID resolves a session's user id to the full user record.
func (s *AuthService) UserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// ValidateSignupForm checks the signup submission fields.
func ValidateSignupForm(form model.SignupForm) model.SignupErrors {
	var errs model.SignupErrors

	switch {
	case form.FirstName == "":
		errs.FirstName = "First name is required"
	case len(form.FirstName) > 60:
		errs.FirstName = "First name is too long"
	}

	switch {
	case form.Team == "":
		errs.Team = "Team is required"
	case !model.ValidTeam(form.Team):
		errs.Team = "Please choose a valid team"
	}

	return errs
}

// CompleteSignup creates the user for a validated email and tags them on the
// mailing list. Tagging is best effort: a mailing-list failure is logged and
// the signup still completes.
func (s *AuthService) CompleteSignup(ctx context.Context, email string, form model.SignupForm) (*model.User, error) {
	user := &model.User{
		Email:     email,
		FirstName: form.FirstName,
		Team:      model.Team(form.Team),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	subscriberID, err := s.tagger.TagSubscriber(ctx, email, form.FirstName)
	if err != nil {
		slog.Error("mailing list tagging failed", "email", email, "error", err)
		return user, nil
	}
	if subscriberID != "" {
		if err := s.users.SetConvertKitID(ctx, user.ID, subscriberID); err != nil {
			slog.Error("storing subscriber id failed", "user_id", user.ID, "error", err)
		} else {
			user.ConvertKitID = subscriberID
		}
	}

	return user, nil
}
