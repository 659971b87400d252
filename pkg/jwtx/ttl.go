package jwtx

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTTL parses a token lifetime string. Besides everything
// time.ParseDuration accepts ("24h", "90m"), it understands the day suffix
// common in deployment configs: "7d" is seven 24-hour days.
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("jwtx: empty ttl")
	}

	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("jwtx: invalid ttl %q", s)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("jwtx: invalid ttl %q", s)
	}
	return d, nil
}
