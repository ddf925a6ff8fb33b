package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMalformed = errors.New("token cannot be decoded")
	ErrTokenInvalid   = errors.New("token signature is invalid")
	ErrTokenExpired   = errors.New("token has expired")
)

// MagicClaims is the payload of a magic-link token: the email address being
// authenticated plus the standard issuance/expiry timestamps. Tokens are
// stateless; validity is signature and age only, there is no server-side
// consumed-token record.
type MagicClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// GenerateMagicToken creates a signed, time-bounded magic-link token for the
// given email address.
func GenerateMagicToken(email string, key []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := MagicClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "homestead",
			Audience:  jwt.ClaimStrings{"homestead-login"},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ValidateMagicToken parses and validates a magic-link token, returning the
// email address it was issued for. Failures map to the token error taxonomy:
// ErrTokenExpired for an aged-out token, ErrTokenMalformed for garbage input,
// ErrTokenInvalid for everything else (bad signature, wrong audience).
func ValidateMagicToken(tokenString string, key []byte) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &MagicClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return key, nil
	}, jwt.WithIssuer("homestead"), jwt.WithAudience("homestead-login"))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		default:
			return "", ErrTokenInvalid
		}
	}

	claims, ok := token.Claims.(*MagicClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return "", ErrTokenInvalid
	}

	return claims.Email, nil
}
