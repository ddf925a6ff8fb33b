package service

import (
	"context"
	"errors"
	"testing"

	"github.com/homestead/homestead-go/internal/discord"
	"github.com/homestead/homestead-go/internal/model"
	"github.com/homestead/homestead-go/internal/repository"
)

type fakeConnector struct {
	member *discord.Member
	err    error
	code   string
}

func (f *fakeConnector) Connect(ctx context.Context, code, domainURL string) (*discord.Member, error) {
	f.code = code
	if f.err != nil {
		return nil, f.err
	}
	return f.member, nil
}

func TestChangeDetailsEmptyName(t *testing.T) {
	svc := NewProfileService(repository.NewUserRepository(nil), &fakeConnector{})
	user := &model.User{ID: 1, FirstName: "Ada"}

	err := svc.ChangeDetails(context.Background(), user, "")
	if !errors.Is(err, ErrFirstNameRequired) {
		t.Fatalf("expected ErrFirstNameRequired, got %v", err)
	}
}

func TestChangeDetailsUnchangedName(t *testing.T) {
	// An unchanged name must not reach the database at all; the nil DB
	// would panic if it did.
	svc := NewProfileService(repository.NewUserRepository(nil), &fakeConnector{})
	user := &model.User{ID: 1, FirstName: "Ada"}

	if err := svc.ChangeDetails(context.Background(), user, "Ada"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConnectDiscordExchangeFailure(t *testing.T) {
	connector := &fakeConnector{err: discord.ErrExchangeFailed}
	svc := NewProfileService(repository.NewUserRepository(nil), connector)
	user := &model.User{ID: 1}

	_, err := svc.ConnectDiscord(context.Background(), user, "bad-code", "http://example.com")
	if !errors.Is(err, discord.ErrExchangeFailed) {
		t.Fatalf("expected ErrExchangeFailed, got %v", err)
	}
	if connector.code != "bad-code" {
		t.Errorf("connector got code %q, want %q", connector.code, "bad-code")
	}
}
