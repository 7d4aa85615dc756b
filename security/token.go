package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

var ErrInvalidToken = errors.New("invalid session token")

// sessionTTL is a hardening measure on top of the token list. A token
// row older than this is unusable even if it was never revoked
const sessionTTL = time.Hour * 24 * 30

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// MakeSessionToken mints a signed token asserting "this bearer is userID".
// Whether the token is actually accepted later also depends on it still
// being present in the user's session list
func MakeSessionToken(userID string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			// iat only has second granularity. The jti is what makes two
			// logins within the same second produce distinct tokens
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
		},
		UserID: userID,
	})

	return t.SignedString([]byte(viper.GetString("jwt.secret")))
}

// VerifySessionToken checks the signature and expiry of a presented token
// and returns the user ID it was minted for. It deliberately knows nothing
// about the session list, that check belongs to the auth middleware
func VerifySessionToken(token string) (string, error) {
	claims := &sessionClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}

		return []byte(viper.GetString("jwt.secret")), nil
	})
	if err != nil {
		return "", err
	}

	if !parsed.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return claims.UserID, nil
}
