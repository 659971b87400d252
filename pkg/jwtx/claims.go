package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. These can be overridden per-deployment via config but
// are the fallback when nothing is configured.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 24 * time.Hour

	// DefaultRefreshTokenTTL is the default lifetime for refresh tokens.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// KindRefresh is the token kind claim embedded in refresh tokens. Access
// tokens carry no kind; the explicit marker is what stops an access token
// being replayed against the refresh endpoint.
const KindRefresh = "refresh"

// Claims are the signed token payload. We keep changes additive to preserve
// compatibility with tokens already in the wild.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user. Only present on access tokens.
	Email string `json:"email,omitempty"`

	// Kind marks the token class. Empty for access tokens, "refresh" for
	// refresh tokens.
	Kind string `json:"kind,omitempty"`
}

// NewAccessClaims builds minimally-correct access-token claims.
func NewAccessClaims(subject, email, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Email: email,
	}
}

// NewRefreshClaims builds refresh-token claims. The random jti guarantees
// two tokens issued for the same subject in the same second still differ,
// which the rotation ledger depends on.
func NewRefreshClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Kind: KindRefresh,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
