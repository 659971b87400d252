package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/session/domain"
	"github.com/aussiebroadwan/sessiond/internal/session/store"
	"github.com/aussiebroadwan/sessiond/pkg/cryptox"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

// AuthService is the orchestrator: it composes the credential validator, the
// token issuer, and the refresh-token ledger into the session operations and
// owns the failure taxonomy the boundary layer sees.
type AuthService struct {
	Store       store.Store
	Credentials *CredentialService
	Tokens      *TokenService

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Register creates an account and returns it sanitized. Fails ErrInvalidInput
// on validation failure and ErrConflict on a duplicate email.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (domain.User, error) {
	user, err := s.Credentials.Register(ctx, email, password, name)
	if err != nil {
		return domain.User{}, err
	}
	return user.Sanitized(), nil
}

// Login verifies credentials, issues a token pair, and records the refresh
// token fingerprint — wholesale, so any previous session for the user is
// implicitly revoked. Every credential failure is the generic ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Credentials.Verify(ctx, email, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return domain.LoginResult{}, ErrUnauthorized
		}
		return domain.LoginResult{}, err
	}

	pair, err := s.Tokens.IssuePair(user)
	if err != nil {
		return domain.LoginResult{}, err
	}

	fp := cryptox.FingerprintToken(pair.RefreshToken)
	if err := s.Store.Users().SaveRefreshToken(ctx, user.ID, fp, pair.RefreshExpiresAt); err != nil {
		return domain.LoginResult{}, err
	}

	log.Info("login succeeded", "user_id", user.ID)
	return domain.LoginResult{Tokens: pair, User: user.Sanitized()}, nil
}

// Refresh exchanges a refresh token for a new pair, rotating the stored
// value so each token is single-use. Steps 1-4 are pure checks; step 5 is
// the only mutation and it is a single compare-and-swap, so two concurrent
// calls with the same token resolve to one success and one ErrUnauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error) {
	log := slogx.FromContext(ctx)

	// 1. Signature, expiry, and kind.
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		log.Info("refresh rejected", "reason", "invalid_token", "err", err)
		return domain.TokenPair{}, ErrUnauthorized
	}

	// 2. Revocation ledger: the presented value must be the stored one.
	fp := cryptox.FingerprintToken(refreshToken)
	user, err := s.Store.Users().GetUserByRefreshTokenHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("refresh rejected", "reason", "revoked", "user_id", claims.Subject)
			return domain.TokenPair{}, ErrUnauthorized
		}
		return domain.TokenPair{}, err
	}

	// 3. Stored expiry. A stale entry is cleared on discovery so the second
	// lookup fails outright.
	if user.RefreshTokenExpiresAt == nil || s.now().After(*user.RefreshTokenExpiresAt) {
		if err := s.Store.Users().ClearRefreshToken(ctx, user.ID); err != nil {
			return domain.TokenPair{}, err
		}
		log.Info("refresh rejected", "reason", "expired", "user_id", user.ID)
		return domain.TokenPair{}, ErrUnauthorized
	}

	// 4. The token's subject must be the user holding it. Defense in depth
	// against a stolen-but-resigned token.
	if claims.Subject != user.ID {
		log.Warn("refresh rejected", "reason", "subject_mismatch", "user_id", user.ID, "subject", claims.Subject)
		return domain.TokenPair{}, ErrUnauthorized
	}

	// 5. Rotate: issue a new pair and swap the stored fingerprint only if it
	// is still the one we looked up.
	pair, err := s.Tokens.IssuePair(user)
	if err != nil {
		return domain.TokenPair{}, err
	}

	newFP := cryptox.FingerprintToken(pair.RefreshToken)
	if err := s.Store.Users().RotateRefreshToken(ctx, user.ID, fp, newFP, pair.RefreshExpiresAt); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost the race to a concurrent refresh with the same token.
			log.Info("refresh rejected", "reason", "rotation_race", "user_id", user.ID)
			return domain.TokenPair{}, ErrUnauthorized
		}
		return domain.TokenPair{}, err
	}

	log.Info("refresh succeeded", "user_id", user.ID)
	return pair, nil
}

// Logout clears the user's stored refresh token. Idempotent: logging out a
// user with no live session, or an unknown user, still succeeds.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.Store.Users().ClearRefreshToken(ctx, userID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("logout", "user_id", userID)
	return nil
}

// GetProfile returns the sanitized user or ErrNotFound.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user.Sanitized(), nil
}

// UpdateProfile mutates email and/or name under the same validation and
// uniqueness rules as registration. Nil fields are left untouched. All
// validation happens before the single write, so a failure never leaves the
// record half-updated.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, email, name *string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}

	newEmail := user.Email
	if email != nil {
		newEmail = NormalizeEmail(*email)
		if err := validateEmail(newEmail); err != nil {
			return domain.User{}, err
		}

		if newEmail != user.Email {
			_, err := s.Store.Users().GetUserByEmail(ctx, newEmail)
			if err == nil {
				return domain.User{}, ErrConflict
			}
			if !errors.Is(err, store.ErrNotFound) {
				return domain.User{}, err
			}
		}
	}

	newName := user.Name
	if name != nil {
		newName = strings.TrimSpace(*name)
		if err := validateName(newName); err != nil {
			return domain.User{}, err
		}
	}

	if err := s.Store.Users().UpdateProfile(ctx, userID, newEmail, newName); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			// Raced another update or registration onto the same email.
			return domain.User{}, ErrConflict
		case errors.Is(err, store.ErrNotFound):
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}

	user.Email = newEmail
	user.Name = newName
	log.Info("profile updated", "user_id", userID)
	return user.Sanitized(), nil
}
