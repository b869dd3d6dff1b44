// Package token issues and validates the signed session tokens that bind a
// user identity. Tokens are stateless: validation is a pure function of the
// token bytes and the shared signing secret, so there is no server-side
// session state and no revocation.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"authvault_backend/internal/feature/auth/domain"
)

// Issuer creates and verifies HS256-signed session tokens.
// The signing secret is injected at construction rather than read from ambient
// configuration, so the component is testable in isolation.
type Issuer struct {
	secret     []byte
	expiration time.Duration
}

// NewIssuer creates a new Issuer with the provided secret and token lifetime.
func NewIssuer(secret string, expiration time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// Issue creates a signed token whose subject is the given email.
func (i *Issuer) Issue(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"iat": now.Unix(),
		"exp": now.Add(i.expiration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Validate checks the token signature and expiry and returns the bound email.
// It returns domain.ErrTokenExpired for stale tokens and domain.ErrTokenInvalid
// for anything malformed or badly signed. The HMAC comparison inside jwt/v5 is
// constant time.
func (i *Issuer) Validate(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		// Only HMAC is acceptable; reject alg confusion attempts
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !token.Valid {
		return "", domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", domain.ErrTokenInvalid
	}
	return sub, nil
}
