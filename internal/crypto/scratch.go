package crypto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ScratchPayload is the transient login-flow state shuttled across the
// login/signup redirect chain.
type ScratchPayload struct {
	Email     string `json:"email,omitempty"`
	MagicLink string `json:"magic_link,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Empty reports whether no field carries a value.
func (p ScratchPayload) Empty() bool {
	return p.Email == "" && p.MagicLink == "" && p.Message == "" && p.Error == ""
}

type scratchClaims struct {
	jwt.RegisteredClaims
	ScratchPayload
}

// EncodeScratch signs the scratch payload into a cookie value.
func EncodeScratch(payload ScratchPayload, key []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := scratchClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "homestead",
			Audience:  jwt.ClaimStrings{"homestead-scratch"},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		ScratchPayload: payload,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// DecodeScratch validates a scratch cookie value and returns its payload.
// Any failure yields ErrTokenInvalid; the flow restarts from an empty
// scratch state rather than surfacing cookie errors to the user.
func DecodeScratch(value string, key []byte) (ScratchPayload, error) {
	token, err := jwt.ParseWithClaims(value, &scratchClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return key, nil
	}, jwt.WithIssuer("homestead"), jwt.WithAudience("homestead-scratch"))
	if err != nil {
		return ScratchPayload{}, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*scratchClaims)
	if !ok || !token.Valid {
		return ScratchPayload{}, ErrTokenInvalid
	}

	return claims.ScratchPayload, nil
}
