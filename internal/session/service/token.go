package service

import (
	"time"

	"github.com/aussiebroadwan/sessiond/internal/session/domain"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
)

// TokenService issues and verifies the two token classes. Access and Refresh
// are the two independently configured signing contexts: separate secrets,
// separate lifetimes, one Signer type.
type TokenService struct {
	Access  *jwtx.Signer
	Refresh *jwtx.Signer

	// Now overrides the clock, for tests. Nil means time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssuePair signs a fresh access/refresh pair for the user. Access claims
// carry the subject and email; refresh claims carry the subject and the
// refresh kind marker.
func (s *TokenService) IssuePair(u domain.User) (domain.TokenPair, error) {
	now := s.now()

	access, err := s.Access.Sign(jwtx.NewAccessClaims(u.ID, u.Email, s.Access.Issuer(), s.Access.TTL(), now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	refresh, err := s.Refresh.Sign(jwtx.NewRefreshClaims(u.ID, s.Refresh.Issuer(), s.Refresh.TTL(), now))
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        s.Access.TTL(),
		RefreshExpiresAt: now.Add(s.Refresh.TTL()),
	}, nil
}

// VerifyAccess validates a token against the access context.
func (s *TokenService) VerifyAccess(token string) (jwtx.Claims, error) {
	return s.Access.Verify(token)
}

// VerifyRefresh validates a token against the refresh context and insists on
// the refresh kind marker, so an access token replayed here fails even if
// the two secrets were ever misconfigured to match.
func (s *TokenService) VerifyRefresh(token string) (jwtx.Claims, error) {
	claims, err := s.Refresh.Verify(token)
	if err != nil {
		return jwtx.Claims{}, err
	}
	if claims.Kind != jwtx.KindRefresh {
		return jwtx.Claims{}, jwtx.ErrWrongKind
	}
	return claims, nil
}
