package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/session/store/drivers/sqlite"
	"github.com/aussiebroadwan/sessiond/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newCredentialService(t *testing.T) *CredentialService {
	t.Helper()
	return &CredentialService{
		Store: newTestStore(t),
		Cost:  cryptox.MinCost, // keep hashing cheap under test
	}
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "ann@example.com", NormalizeEmail("  Ann@Example.COM  "))
	require.Equal(t, "ann@example.com", NormalizeEmail("ann@example.com"))
}

func TestRegisterValidation(t *testing.T) {
	svc := newCredentialService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		userName string
	}{
		{"email too short", "a", "password123", "Ann"},
		{"email malformed", "not-an-email", "password123", "Ann"},
		{"password too short", "ann@example.com", "short", "Ann"},
		{"name too short", "ann@example.com", "password123", "A"},
		{"name too long", "ann@example.com", "password123", strings.Repeat("x", MaxNameLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.password, tt.userName)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterNormalizesAndHashes(t *testing.T) {
	svc := newCredentialService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "  Ann@Example.COM  ", "password123", "  Ann  ")
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", user.Email)
	require.Equal(t, "Ann", user.Name)
	require.NotEmpty(t, user.ID)

	// Only a digest is stored, never the plaintext.
	require.NotEqual(t, "password123", user.PasswordHash)
	require.NoError(t, cryptox.VerifyPassword("password123", user.PasswordHash))

	stored, err := svc.Store.Users().GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, stored.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newCredentialService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "password123", "Ann")
	require.NoError(t, err)

	// Same address in a different case is still the same identity.
	_, err = svc.Register(ctx, "ANN@EXAMPLE.COM", "otherpassword", "Another Ann")
	require.ErrorIs(t, err, ErrConflict)

	// The failed attempt must not have left a second record behind.
	_, err = svc.Store.Users().GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
}

func TestVerify(t *testing.T) {
	svc := newCredentialService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, "ann@example.com", "password123", "Ann")
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		user, err := svc.Verify(ctx, "Ann@Example.com", "password123")
		require.NoError(t, err)
		require.Equal(t, registered.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Verify(ctx, "ann@example.com", "wrongpassword")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email reports the same error", func(t *testing.T) {
		_, err := svc.Verify(ctx, "nobody@example.com", "password123")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestVerifyUnknownEmailBurnsAHash(t *testing.T) {
	if testing.Short() {
		t.Skip("timing test")
	}

	// Full-cost hashing so the comparison dominates the measurement.
	svc := &CredentialService{Store: newTestStore(t), Cost: cryptox.DefaultCost}
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann@example.com", "password123", "Ann")
	require.NoError(t, err)

	measure := func(email string) time.Duration {
		start := time.Now()
		_, err := svc.Verify(ctx, email, "wrongpassword")
		require.ErrorIs(t, err, ErrInvalidCredentials)
		return time.Since(start)
	}

	known := measure("ann@example.com")
	unknown := measure("nobody@example.com")

	// The unknown-email path must not return near-instantly compared to a
	// real bcrypt comparison. Generous bound to keep CI noise out.
	require.Greater(t, unknown, known/4,
		"unknown-email verification should cost a hash comparison (known=%v unknown=%v)", known, unknown)
}
