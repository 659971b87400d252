package domain

import "time"

// TokenPair is what a successful login or refresh returns: the short-lived
// access token and the rotated refresh token, both signed JWTs.
type TokenPair struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    time.Duration `json:"expires_in"` // seconds until the access token expires

	// RefreshExpiresAt is the absolute expiry persisted alongside the
	// refresh token. The boundary layer uses it for cookie lifetimes.
	RefreshExpiresAt time.Time `json:"-"`
}

// LoginResult bundles the issued pair with the sanitized account record.
type LoginResult struct {
	Tokens TokenPair
	User   User
}
