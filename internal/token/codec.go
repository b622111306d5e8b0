// Package token decodes the compact signed-token payload issued by the
// backend to read its time claims. No signature verification happens
// here: the claims feed UX heuristics (token-age checks) only, never
// authorization decisions, which are always re-validated server-side.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the decoded time claims of a token. Both fields are
// optional in the payload.
type Claims struct {
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// DecodeClaims best-effort decodes the payload segment of a token.
// Returns nil unless the token has exactly three dot-separated
// segments and the payload is valid base64url-encoded JSON. Never
// panics and never mutates its input.
func DecodeClaims(tokenString string) *Claims {
	parsed, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil
	}

	claims := &Claims{}

	if iat, err := parsed.Claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		claims.IssuedAt = &t
	}
	if exp, err := parsed.Claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		claims.ExpiresAt = &t
	}

	return claims
}

// IssuedWithin reports whether the token was issued within the grace
// window ending at now. Returns false when the claims are absent or
// could not be decoded, so eviction heuristics treat an unreadable
// token as an old one.
func (c *Claims) IssuedWithin(window time.Duration, now time.Time) bool {
	if c == nil || c.IssuedAt == nil {
		return false
	}

	age := now.Sub(*c.IssuedAt)
	return age < window
}

// Expiry returns the expiry claim for display purposes. The ok result
// is false when the claim is absent or undecodable; callers show
// nothing rather than a default date.
func (c *Claims) Expiry() (time.Time, bool) {
	if c == nil || c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return *c.ExpiresAt, true
}
