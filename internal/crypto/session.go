package crypto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a session cookie: an opaque reference to
// one user.
type SessionClaims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

// GenerateSessionToken creates a signed session token for the given user.
func GenerateSessionToken(userID int64, key []byte, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "homestead",
			Audience:  jwt.ClaimStrings{"homestead-session"},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ValidateSessionToken parses and validates a session token, returning the
// user ID it references. All failures collapse to ErrTokenInvalid; callers
// treat any failure as an anonymous request, so the distinction carried by
// the magic-link taxonomy has no audience here.
func ValidateSessionToken(tokenString string, key []byte) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return key, nil
	}, jwt.WithIssuer("homestead"), jwt.WithAudience("homestead-session"))
	if err != nil {
		return 0, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return 0, ErrTokenInvalid
	}

	return claims.UserID, nil
}
