package domain

import "time"

// User is the single account record. RefreshTokenHash holds the fingerprint
// of the one live refresh token for the user; it is set and cleared together
// with RefreshTokenExpiresAt, never one without the other.
type User struct {
	ID           string
	Email        string // trimmed + lowercased before storage
	Name         string
	PasswordHash string // bcrypt encoded

	RefreshTokenHash      *string
	RefreshTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Sanitized returns a copy safe to hand to the boundary layer: the password
// hash and session fields never leave the core.
func (u User) Sanitized() User {
	u.PasswordHash = ""
	u.RefreshTokenHash = nil
	u.RefreshTokenExpiresAt = nil
	return u
}
