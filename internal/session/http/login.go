package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/sessiond/internal/session/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

type LoginHandler struct {
	AuthService   *service.AuthService
	SecureCookies bool
}

// ServeHTTP handles credential login.
//
//	@Summary		Log in with email and password
//	@Description	Verifies credentials and issues an access/refresh token pair. The refresh token is
//	@Description	also set as an HttpOnly cookie for browser clients. Any prior session for the user
//	@Description	is implicitly revoked.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"email, password"
//	@Success		200		{object}	LoginResponse	"Token pair and sanitized user"
//	@Failure		401		{object}	ErrorResponse	"Invalid credentials"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "malformed request body")
		return
	}

	result, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	setRefreshCookie(w, result.Tokens.RefreshToken, result.Tokens.RefreshExpiresAt, h.SecureCookies)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		TokenResponse: newTokenResponse(result.Tokens),
		User:          newUserResponse(result.User),
	})
}
