package jwtx

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestSigner(t *testing.T, ttl time.Duration) *Signer {
	t.Helper()
	s, err := NewSigner("test-secret", ttl, "sessiond-test")
	require.NoError(t, err)
	return s
}

func TestNewSigner(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := NewSigner("", time.Hour, "iss")
		require.ErrorIs(t, err, ErrNoSecret)
	})

	t.Run("zero ttl falls back to default", func(t *testing.T) {
		s, err := NewSigner("secret", 0, "iss")
		require.NoError(t, err)
		require.Equal(t, DefaultAccessTokenTTL, s.TTL())
	})
}

func TestSignVerifyRoundTrip(t *testing.T) {
	s := newTestSigner(t, time.Hour)
	now := time.Now()

	token, err := s.Sign(NewAccessClaims("user-1", "ann@example.com", s.Issuer(), s.TTL(), now))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "ann@example.com", claims.Email)
	require.Equal(t, "sessiond-test", claims.Issuer)
	require.Empty(t, claims.Kind)
	require.WithinDuration(t, now.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestVerifyExpired(t *testing.T) {
	s := newTestSigner(t, time.Hour)

	// Issued two hours ago with a one-hour ttl.
	token, err := s.Sign(NewAccessClaims("user-1", "ann@example.com", s.Issuer(), s.TTL(), time.Now().Add(-2*time.Hour)))
	require.NoError(t, err)

	_, err = s.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	s := newTestSigner(t, time.Hour)
	other, err := NewSigner("another-secret", time.Hour, "sessiond-test")
	require.NoError(t, err)

	token, err := s.Sign(NewAccessClaims("user-1", "", s.Issuer(), s.TTL(), time.Now()))
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	s := newTestSigner(t, time.Hour)

	token, err := s.Sign(NewAccessClaims("user-1", "", s.Issuer(), s.TTL(), time.Now()))
	require.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = s.Verify(tampered)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	s := newTestSigner(t, time.Hour)

	for _, input := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0..", strings.Repeat("x", 4096)} {
		_, err := s.Verify(input)
		require.ErrorIs(t, err, ErrMalformed, "input %q", input)
	}
}

func TestRefreshClaimsCarryKind(t *testing.T) {
	s := newTestSigner(t, DefaultRefreshTokenTTL)

	token, err := s.Sign(NewRefreshClaims("user-1", s.Issuer(), s.TTL(), time.Now()))
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)
	require.Equal(t, KindRefresh, claims.Kind)
	require.Empty(t, claims.Email)
	require.NotEmpty(t, claims.ID, "jti should be set")
}

func TestRefreshClaimsAreUniquePerIssue(t *testing.T) {
	s := newTestSigner(t, DefaultRefreshTokenTTL)
	now := time.Now()

	// Same subject, same instant: the random jti keeps them distinct, which
	// the rotation ledger depends on.
	a, err := s.Sign(NewRefreshClaims("user-1", s.Issuer(), s.TTL(), now))
	require.NoError(t, err)
	b, err := s.Sign(NewRefreshClaims("user-1", s.Issuer(), s.TTL(), now))
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}
