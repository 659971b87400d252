package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{"hours", "24h", 24 * time.Hour},
		{"minutes", "90m", 90 * time.Minute},
		{"compound", "1h30m", 90 * time.Minute},
		{"single day", "1d", 24 * time.Hour},
		{"week of days", "7d", 7 * 24 * time.Hour},
		{"surrounding whitespace", " 12h ", 12 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTTL(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseTTL_Invalid(t *testing.T) {
	for _, input := range []string{"", "  ", "abc", "0d", "-1d", "1.5d", "d", "0s", "-5m"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTTL(input)
			require.Error(t, err)
		})
	}
}
