package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/aussiebroadwan/sessiond/internal/session/domain"
	"github.com/aussiebroadwan/sessiond/internal/session/store"
	"github.com/aussiebroadwan/sessiond/pkg/cryptox"
	"github.com/aussiebroadwan/sessiond/pkg/idx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// Input bounds for registration and profile updates.
const (
	MinEmailLength    = 3
	MinPasswordLength = 8
	MinNameLength     = 2
	MaxNameLength     = 100
)

// CredentialService owns password hashing and identity normalization. It is
// the only component that ever sees a plaintext password.
type CredentialService struct {
	Store store.Store

	// Cost is the bcrypt work factor. Zero means cryptox.DefaultCost.
	Cost int
}

// NormalizeEmail applies the canonical form used everywhere emails are
// compared or stored: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register validates the input, enforces email uniqueness, and creates the
// account with only the password's bcrypt digest stored.
func (s *CredentialService) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	if err := validateEmail(email); err != nil {
		return domain.User{}, err
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, MinPasswordLength)
	}
	if err := validateName(name); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password, s.Cost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}

	// Lookup and insert run in one transaction so two racing registrations
	// for the same email cannot both pass the existence check; the unique
	// constraint backstops the race either way.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Users().GetUserByEmail(ctx, email)
		if err == nil {
			return ErrConflict
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.Users().CreateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Verify checks a password against the stored digest. When no account
// matches the email, a dummy digest is still compared so the not-found path
// costs the same as a real verification; both outcomes report the single
// ErrInvalidCredentials.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	email = NormalizeEmail(email)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.CompareDummy(password)
			log.Info("login rejected", "reason", "unknown_email")
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Info("login rejected", "reason", "bad_password", "user_id", user.ID)
		return domain.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func validateEmail(email string) error {
	if len(email) < MinEmailLength {
		return fmt.Errorf("%w: email too short", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	return nil
}

func validateName(name string) error {
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return fmt.Errorf("%w: name must be %d-%d characters", ErrInvalidInput, MinNameLength, MaxNameLength)
	}
	return nil
}
