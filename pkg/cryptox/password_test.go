package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 70)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, MinCost)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// bcrypt modular-crypt prefix
			require.True(t, strings.HasPrefix(hash, "$2a$"),
				"hash should be in bcrypt format")

			require.NoError(t, VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "samepassword"

	hash1, err := HashPassword(password, MinCost)
	require.NoError(t, err)

	hash2, err := HashPassword(password, MinCost)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")
}

func TestHashPassword_CostClamping(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want string // expected cost segment in the encoded hash
	}{
		{"zero falls back to default", 0, "$10$"},
		{"negative falls back to default", -3, "$10$"},
		{"in range is kept", 4, "$04$"},
		{"above max clamps down", 31, "$15$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cost > MinCost+1 && testing.Short() {
				t.Skip("expensive cost in short mode")
			}
			hash, err := HashPassword("password123", tt.cost)
			require.NoError(t, err)
			require.Contains(t, hash, tt.want)
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", MinCost)
	require.NoError(t, err)

	t.Run("accepts the right password", func(t *testing.T) {
		require.NoError(t, VerifyPassword("correct horse", hash))
	})

	t.Run("rejects the wrong password", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("battery staple", hash), ErrPasswordMismatch)
	})

	t.Run("rejects a garbage hash", func(t *testing.T) {
		require.ErrorIs(t, VerifyPassword("correct horse", "not-a-hash"), ErrPasswordMismatch)
	})
}

func TestCompareDummy(t *testing.T) {
	// Always a mismatch, whatever the input.
	require.ErrorIs(t, CompareDummy("anything"), ErrPasswordMismatch)
	require.ErrorIs(t, CompareDummy(""), ErrPasswordMismatch)
	require.ErrorIs(t, CompareDummy("sessiond.timing.equalizer"), ErrPasswordMismatch)
}
