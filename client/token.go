package client

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ExpirySoonWindow is how close to expiry a token may get before the
// client should prompt for a fresh login. There is no refresh flow;
// expiry always means logging in again.
const ExpirySoonWindow = 5 * time.Minute

// Claims is the unverified local view of a session token. The client
// never checks the signature; that is the server's job. It only reads
// the payload to display state and decide whether to bother the server
// at all.
type Claims struct {
	UserID   uint   `json:"sub"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// ParseToken decodes the token payload without verifying the signature.
func ParseToken(raw string) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

// Expired treats a missing exp claim as expired; a token the client
// cannot reason about is a token it should not trust.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return now.After(c.ExpiresAt.Time)
}

// ExpiresIn returns the remaining lifetime; zero or negative means the
// token is already dead.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Time.Sub(now)
}

// ExpiringSoon reports whether the token is still valid but inside the
// proactive re-login window.
func (c *Claims) ExpiringSoon(now time.Time) bool {
	left := c.ExpiresIn(now)
	return left > 0 && left < ExpirySoonWindow
}
