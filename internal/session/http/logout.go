package http

import (
	"net/http"

	"github.com/aussiebroadwan/sessiond/internal/session/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

type LogoutHandler struct {
	AuthService   *service.AuthService
	SecureCookies bool
}

// ServeHTTP handles logout.
//
//	@Summary		Log out
//	@Description	Revokes the caller's refresh token server-side and clears the refresh cookie.
//	@Description	Idempotent: logging out with no live session still succeeds.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		204	"Session revoked"
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing access token"
//	@Router			/v1/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	if err := h.AuthService.Logout(ctx, userID); err != nil {
		writeServiceError(w, log, err)
		return
	}

	clearRefreshCookie(w, h.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}
