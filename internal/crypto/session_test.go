package crypto

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	key := DeriveKey("test-secret", PurposeSession)

	token, err := GenerateSessionToken(42, key, time.Hour)
	if err != nil {
		t.Fatalf("GenerateSessionToken() unexpected error: %v", err)
	}

	userID, err := ValidateSessionToken(token, key)
	if err != nil {
		t.Fatalf("ValidateSessionToken() unexpected error: %v", err)
	}
	if userID != 42 {
		t.Errorf("ValidateSessionToken() userID = %d, want 42", userID)
	}
}

func TestValidateSessionTokenExpired(t *testing.T) {
	key := DeriveKey("test-secret", PurposeSession)

	token, err := GenerateSessionToken(42, key, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateSessionToken() unexpected error: %v", err)
	}

	if _, err := ValidateSessionToken(token, key); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ValidateSessionToken() error = %v, want ErrTokenInvalid", err)
	}
}

func TestValidateSessionTokenGarbage(t *testing.T) {
	key := DeriveKey("test-secret", PurposeSession)

	if _, err := ValidateSessionToken("garbage", key); err == nil {
		t.Error("ValidateSessionToken() expected error for garbage input")
	}
}

func TestDeriveKeyDistinctPurposes(t *testing.T) {
	a := DeriveKey("test-secret", PurposeSession)
	b := DeriveKey("test-secret", PurposeMagicLink)
	c := DeriveKey("test-secret", PurposeSession)

	if string(a) == string(b) {
		t.Error("DeriveKey() produced identical keys for distinct purposes")
	}
	if string(a) != string(c) {
		t.Error("DeriveKey() is not deterministic for the same purpose")
	}
	if len(a) != 32 {
		t.Errorf("DeriveKey() key length = %d, want 32", len(a))
	}
}
