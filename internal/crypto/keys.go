package crypto

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Purpose labels for derived signing keys. A token signed for one purpose
// must never validate under another, so each cookie/link kind gets its own
// key derived from the single configured secret.
const (
	PurposeMagicLink    = "magic-link"
	PurposeSession      = "session"
	PurposeLoginScratch = "login-scratch"
)

// DeriveKey derives a 32-byte signing key for the given purpose from the
// master secret using HKDF-SHA256.
func DeriveKey(masterSecret, purpose string) []byte {
	r := hkdf.New(sha256.New, []byte(masterSecret), nil, []byte(purpose))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		// hkdf only errors once the output space is exhausted, which a
		// single 32-byte read cannot reach.
		panic(err)
	}
	return key
}
