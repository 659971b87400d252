package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed = errors.New("jwtx: malformed token")
	ErrExpired   = errors.New("jwtx: token expired")
	ErrWrongKind = errors.New("jwtx: wrong token kind")

	// ErrNoSecret reports a signer constructed without key material. Config
	// loading should have refused to start long before this fires.
	ErrNoSecret = errors.New("jwtx: empty signing secret")
)

// Signer is a single HMAC-SHA256 signing context: one secret, one lifetime,
// one issuer. The service instantiates it twice, once with the access-token
// configuration and once with the refresh-token configuration.
type Signer struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewSigner builds a signing context. The secret must be non-empty; the ttl
// falls back to DefaultAccessTokenTTL when zero.
func NewSigner(secret string, ttl time.Duration, issuer string) (*Signer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl, issuer: issuer}, nil
}

// TTL returns the configured token lifetime.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Issuer returns the configured issuer claim.
func (s *Signer) Issuer() string { return s.issuer }

// Sign produces a compact HS256 JWT for the given claims.
func (s *Signer) Sign(c Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token against this context's secret.
// Expired tokens map to ErrExpired; everything else that fails to parse or
// validate (bad signature, garbage input, wrong algorithm) is ErrMalformed.
func (s *Signer) Verify(token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, ErrMalformed
	}
	return claims, nil
}
