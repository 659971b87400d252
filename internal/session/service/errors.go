package service

import "errors"

// The failure taxonomy the boundary layer maps onto transport codes. Login
// and refresh deliberately collapse every credential or token problem into
// the single ErrUnauthorized; the finer-grained reason is logged but never
// surfaced, so callers cannot probe account or token state.
var (
	ErrInvalidInput = errors.New("invalid_input")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not_found")

	// ErrInvalidCredentials is the credential validator's single verdict for
	// both "no such account" and "wrong password". The orchestrator folds it
	// into ErrUnauthorized.
	ErrInvalidCredentials = errors.New("invalid_credentials")
)
