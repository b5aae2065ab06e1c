// Package jwt signs and verifies the short-lived state parameter used
// during the OAuth authorization-code round trip.
package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidState is returned when a state token fails verification.
var ErrInvalidState = errors.New("invalid oauth state")

// StateClaims carries the provider the state was issued for.
type StateClaims struct {
	Provider string `json:"provider"`
	jwt.RegisteredClaims
}

// StateSigner generates and verifies OAuth state tokens.
type StateSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New creates a StateSigner.
func New(secret string, ttl time.Duration) *StateSigner {
	return &StateSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate creates a signed state bound to provider.
func (s *StateSigner) Generate(provider string) (string, error) {
	now := s.now()
	claims := StateClaims{
		Provider: provider,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature, expiry and provider binding of state.
func (s *StateSigner) Verify(state, provider string) error {
	claims := &StateClaims{}
	token, err := jwt.ParseWithClaims(state, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return ErrInvalidState
	}
	if claims.Provider != provider {
		return ErrInvalidState
	}
	return nil
}
