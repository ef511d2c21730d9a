// Package auth issues and verifies the bearer tokens that protect the admin
// API. Tokens are stateless HS256 JWTs: there is no server-side revocation
// list, so logout is a client-side discard and a leaked token stays valid
// until its natural expiry. That is a deliberate tradeoff, not an oversight.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrTokenExpired means the token was valid once and is now stale; the
	// client should log in again.
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid means the token is malformed or carries a bad
	// signature; treat it as garbage input.
	ErrTokenInvalid = errors.New("invalid token")
)

// Claims is the payload embedded in every issued token.
type Claims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies bearer tokens with a process-wide secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService builds a service signing with secret, issuing tokens valid
// for ttl (24h if zero).
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("jwt secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// Issue produces a signed token embedding the user's identity and an expiry.
func (s *TokenService) Issue(userID int64, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
// An expired-but-otherwise-sound token yields ErrTokenExpired; anything else
// wrong yields ErrTokenInvalid.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
