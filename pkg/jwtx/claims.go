package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the lifetime of issued session tokens. The matching
// session row in the database is created with the same expiry, so both
// checks agree on when a login stops being valid.
const DefaultSessionTTL = 24 * time.Hour

// Claims are the identity claims embedded in a session token. The custom
// field names match the wire format the dashboard frontend already decodes.
type Claims struct {
	jwt.RegisteredClaims

	// UserID is the stable identifier of the authenticated user.
	UserID string `json:"userId,omitempty"`

	// Username for the authenticated user.
	Username string `json:"username,omitempty"`

	// Role is the flat authorization role, "admin" or "user".
	Role string `json:"role,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a login session.
// sessionID becomes the jti claim, so two logins in the same second still
// sign distinct tokens (iat/exp carry only second precision and HS256 is
// deterministic).
func NewSessionClaims(
	sessionID, userID, username, role string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:   userID,
		Username: username,
		Role:     role,
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't before nbf.
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}

	return nil
}
