package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/sessiond/internal/session/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

type RegisterHandler struct {
	AuthService *service.AuthService
}

// ServeHTTP handles account registration.
//
//	@Summary		Register a new account
//	@Description	Creates a user account. The email is normalized (trimmed, lowercased) and must be unique.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RegisterRequest	true	"email, password, name"
//	@Success		201		{object}	UserResponse	"The created account, without secret fields"
//	@Failure		400		{object}	ErrorResponse	"Validation failure"
//	@Failure		409		{object}	ErrorResponse	"Email already registered"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "malformed request body")
		return
	}

	user, err := h.AuthService.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, newUserResponse(user))
}
