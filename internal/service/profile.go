package service

import (
	"context"
	"errors"

	"github.com/homestead/homestead-go/internal/discord"
	"github.com/homestead/homestead-go/internal/model"
	"github.com/homestead/homestead-go/internal/repository"
)

// ErrFirstNameRequired rejects an empty display name on profile edits.
var ErrFirstNameRequired = errors.New("First name is required")

// Connector runs the external-provider code exchange.
type Connector interface {
	Connect(ctx context.Context, code, domainURL string) (*discord.Member, error)
}

// ProfileService handles profile edits and account linking.
type ProfileService struct {
	users     *repository.UserRepository
	connector Connector
}

// NewProfileService creates a ProfileService.
func NewProfileService(users *repository.UserRepository, connector Connector) *ProfileService {
	return &ProfileService{users: users, connector: connector}
}

// ChangeDetails updates the user's display name. Unchanged names are a
// no-op.
func (s *ProfileService) ChangeDetails(ctx context.Context, user *model.User, firstName string) error {
	if firstName == "" {
		return ErrFirstNameRequired
	}
	if firstName == user.FirstName {
		return nil
	}
	return s.users.UpdateFirstName(ctx, user.ID, firstName)
}

// ConnectDiscord exchanges the authorization code and stores the linked
// member id on the user.
func (s *ProfileService) ConnectDiscord(ctx context.Context, user *model.User, code, domainURL string) (*discord.Member, error) {
	member, err := s.connector.Connect(ctx, code, domainURL)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetDiscordID(ctx, user.ID, member.ID); err != nil {
		return nil, err
	}
	return member, nil
}

// DisconnectDiscord removes the linked member id from the user.
func (s *ProfileService) DisconnectDiscord(ctx context.Context, user *model.User) error {
	return s.users.ClearDiscordID(ctx, user.ID)
}
