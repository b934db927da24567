// Package auth holds the stateless pieces of authentication: session token
// issuing and verification, password hashing and bearer header parsing.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/filehost/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token: subject (user id), issued-at
// and expiry. Nothing else is carried.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 session tokens. It is safe for
// concurrent use.
type TokenService struct {
	secret []byte
	maxAge time.Duration
}

func NewTokenService(secret []byte, maxAge time.Duration) *TokenService {
	return &TokenService{secret: secret, maxAge: maxAge}
}

// Issue signs a token for subjectID with iat=now and exp=now+maxAge.
// Both claims are whole seconds, so now is truncated first and the lifetime
// encoded in the token is exactly maxAge.
func (s *TokenService) Issue(subjectID int64, now time.Time) (string, error) {
	now = now.Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.maxAge)),
		},
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry of tokenString as of now.
// A token fails only once now is after exp; at exactly exp it is valid.
// Every failure wraps common.ErrInvalidToken together with the jwt cause,
// so errors.Is(err, jwt.ErrTokenExpired) still works for callers that care.
func (s *TokenService) Verify(tokenString string, now time.Time) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		// jwt treats exp as exclusive; step back by the clock resolution.
		jwt.WithTimeFunc(func() time.Time { return now.Add(-time.Nanosecond) }),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// UserID parses the subject claim as a numeric user id.
func (c *Claims) UserID() (int64, error) {
	if c.Subject == "" {
		return 0, errors.New("empty subject claim")
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subject claim: %w", err)
	}
	return id, nil
}
