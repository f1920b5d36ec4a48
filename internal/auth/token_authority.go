package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenExpiry is the duration for which issued tokens are valid. There is no
// server-side revocation: every token lives until its own expiry.
const TokenExpiry = 24 * time.Hour

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents JWT claims; the subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenAuthority issues and verifies signed identity tokens.
type TokenAuthority struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenAuthority creates a token authority with the given signing secret.
func NewTokenAuthority(secret string) *TokenAuthority {
	return &TokenAuthority{
		secret: []byte(secret),
		ttl:    TokenExpiry,
	}
}

// Issue generates a signed token for the given subject.
func (a *TokenAuthority) Issue(subjectID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify validates a token and returns its subject. Signature mismatch,
// malformed payload, non-UUID subject and expiry all map to ErrInvalidToken;
// expiry is checked with no clock-skew leeway.
func (a *TokenAuthority) Verify(tokenString string) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	subjectID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return subjectID, nil
}
