package crypto

import (
	"testing"
	"time"
)

func TestScratchRoundTrip(t *testing.T) {
	key := DeriveKey("test-secret", PurposeLoginScratch)
	payload := ScratchPayload{
		Email:     "me@x.com",
		MagicLink: "http://localhost/magic?token=abc",
		Message:   "Email sent.",
	}

	value, err := EncodeScratch(payload, key, time.Hour)
	if err != nil {
		t.Fatalf("EncodeScratch() unexpected error: %v", err)
	}

	got, err := DecodeScratch(value, key)
	if err != nil {
		t.Fatalf("DecodeScratch() unexpected error: %v", err)
	}
	if got != payload {
		t.Errorf("DecodeScratch() = %+v, want %+v", got, payload)
	}
}

func TestDecodeScratchTampered(t *testing.T) {
	key := DeriveKey("test-secret", PurposeLoginScratch)

	value, err := EncodeScratch(ScratchPayload{Email: "me@x.com"}, key, time.Hour)
	if err != nil {
		t.Fatalf("EncodeScratch() unexpected error: %v", err)
	}

	if _, err := DecodeScratch(value+"x", key); err == nil {
		t.Error("DecodeScratch() expected error for tampered value")
	}
}

func TestScratchPayloadEmpty(t *testing.T) {
	if !(ScratchPayload{}).Empty() {
		t.Error("zero payload should be empty")
	}
	if (ScratchPayload{Error: "boom"}).Empty() {
		t.Error("payload with an error field should not be empty")
	}
}
