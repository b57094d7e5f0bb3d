package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential holds the token pair issued by the backend. It is persisted by
// the credential store and mutated only by the session manager.
type Credential struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Empty reports whether no usable token pair is present.
func (c Credential) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// ExpiresAt decodes the access token's exp claim without verifying the
// signature — the client has no signing key, and the backend re-validates
// every request anyway. A malformed token or a token without an exp claim
// yields an error so callers can treat it as renewal-required.
func (c Credential) ExpiresAt() (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(c.AccessToken, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, err
	}
	if exp == nil {
		return time.Time{}, jwt.ErrTokenRequiredClaimMissing
	}
	return exp.Time, nil
}

// NearExpiry reports whether the access token expires within threshold of
// now. A token whose expiry cannot be decoded counts as near expiry.
func (c Credential) NearExpiry(now time.Time, threshold time.Duration) bool {
	exp, err := c.ExpiresAt()
	if err != nil {
		return true
	}
	return exp.Sub(now) < threshold
}
