package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/sessiond/internal/session/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

type RefreshHandler struct {
	AuthService   *service.AuthService
	SecureCookies bool
}

// ServeHTTP handles refresh-token rotation.
//
//	@Summary		Exchange a refresh token for a new token pair
//	@Description	The refresh token is read from the refresh cookie, falling back to the request body.
//	@Description	Each token is single-use: a successful exchange rotates the stored token, and replaying
//	@Description	the old value fails with 401.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RefreshRequest	false	"refresh_token (non-browser clients)"
//	@Success		200		{object}	TokenResponse	"New token pair"
//	@Failure		401		{object}	ErrorResponse	"Invalid, expired, or revoked token"
//	@Router			/v1/auth/refresh [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	token := ""
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		token = c.Value
	}
	if token == "" {
		var req RefreshRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
			token = req.RefreshToken
		}
	}
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing refresh token")
		return
	}

	pair, err := h.AuthService.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			clearRefreshCookie(w, h.SecureCookies)
		}
		writeServiceError(w, log, err)
		return
	}

	setRefreshCookie(w, pair.RefreshToken, pair.RefreshExpiresAt, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, newTokenResponse(pair))
}
