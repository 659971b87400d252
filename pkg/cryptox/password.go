package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost bounds. DefaultCost matches the usual interactive-login budget;
// MaxCost is clamped well below bcrypt's own ceiling so a misconfigured
// deployment cannot stall login requests for seconds.
const (
	MinCost     = bcrypt.MinCost // 4
	DefaultCost = 10
	MaxCost     = 15
)

var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// dummyHash is compared against the supplied password whenever no account
// matches the given email. The comparison result is discarded; its only job
// is to make the unknown-email path cost the same as a real verification so
// response timing does not leak which emails have accounts.
var dummyHash = func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte("sessiond.timing.equalizer"), DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("cryptox: dummy hash generation failed: %v", err))
	}
	return h
}()

// HashPassword produces a bcrypt digest of the password. Costs outside
// [MinCost, MaxCost] are clamped rather than rejected.
func HashPassword(password string, cost int) (string, error) {
	if cost < MinCost {
		cost = DefaultCost
	}
	if cost > MaxCost {
		cost = MaxCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("cryptox: hash password: %w", err)
	}
	return string(h), nil
}

// VerifyPassword compares a plaintext password against a bcrypt digest.
func VerifyPassword(password, encodedHash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// CompareDummy burns one bcrypt verification against the fixed dummy digest
// and always reports a mismatch. Callers invoke it on the account-not-found
// path before failing.
func CompareDummy(password string) error {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
	return ErrPasswordMismatch
}
