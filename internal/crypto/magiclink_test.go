package crypto

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateMagicToken(t *testing.T) {
	key := DeriveKey("test-secret", PurposeMagicLink)

	token, err := GenerateMagicToken("me@x.com", key, time.Hour)
	if err != nil {
		t.Fatalf("GenerateMagicToken() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateMagicToken() returned empty string")
	}
}

func TestValidateMagicTokenRoundTrip(t *testing.T) {
	key := DeriveKey("test-secret", PurposeMagicLink)

	token, err := GenerateMagicToken("me@x.com", key, time.Hour)
	if err != nil {
		t.Fatalf("GenerateMagicToken() unexpected error: %v", err)
	}

	email, err := ValidateMagicToken(token, key)
	if err != nil {
		t.Fatalf("ValidateMagicToken() unexpected error: %v", err)
	}
	if email != "me@x.com" {
		t.Errorf("ValidateMagicToken() email = %q, want %q", email, "me@x.com")
	}
}

func TestValidateMagicTokenExpired(t *testing.T) {
	key := DeriveKey("test-secret", PurposeMagicLink)

	token, err := GenerateMagicToken("me@x.com", key, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateMagicToken() unexpected error: %v", err)
	}

	_, err = ValidateMagicToken(token, key)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ValidateMagicToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestValidateMagicTokenMalformed(t *testing.T) {
	key := DeriveKey("test-secret", PurposeMagicLink)

	for _, garbage := range []string{"", "not-a-token", "a.b", "!!!.@@@.###"} {
		_, err := ValidateMagicToken(garbage, key)
		if !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("ValidateMagicToken(%q) error = %v, want ErrTokenMalformed", garbage, err)
		}
	}
}

func TestValidateMagicTokenWrongKey(t *testing.T) {
	key := DeriveKey("correct-secret", PurposeMagicLink)
	wrongKey := DeriveKey("wrong-secret", PurposeMagicLink)

	token, err := GenerateMagicToken("me@x.com", key, time.Hour)
	if err != nil {
		t.Fatalf("GenerateMagicToken() unexpected error: %v", err)
	}

	_, err = ValidateMagicToken(token, wrongKey)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ValidateMagicToken() error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateMagicTokenCrossPurpose(t *testing.T) {
	// A session token must not validate as a magic link even though both
	// derive from the same master secret.
	sessionKey := DeriveKey("test-secret", PurposeSession)
	magicKey := DeriveKey("test-secret", PurposeMagicLink)

	token, err := GenerateSessionToken(42, sessionKey, time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken() unexpected error: %v", err)
	}

	if _, err := ValidateMagicToken(token, magicKey); err == nil {
		t.Error("ValidateMagicToken() expected error for session token")
	}
}
