package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/sessiond/internal/session/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"
)

type ProfileHandler struct {
	AuthService *service.AuthService
}

// HandleGet returns the authenticated user's profile.
//
//	@Summary		Get the authenticated user's profile
//	@Tags			Profile
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	UserResponse
//	@Failure		401	{object}	ErrorResponse	"Invalid or missing access token"
//	@Failure		404	{object}	ErrorResponse	"Account no longer exists"
//	@Router			/v1/profile [get].
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	user, err := h.AuthService.GetProfile(ctx, userID)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}

// HandlePatch updates the authenticated user's email and/or name.
//
//	@Summary		Update the authenticated user's profile
//	@Description	Only the provided fields change. A new email is normalized and must stay unique.
//	@Tags			Profile
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		UpdateProfileRequest	true	"fields to change"
//	@Success		200		{object}	UserResponse
//	@Failure		400		{object}	ErrorResponse	"Validation failure"
//	@Failure		404		{object}	ErrorResponse	"Account no longer exists"
//	@Failure		409		{object}	ErrorResponse	"Email already in use"
//	@Router			/v1/profile [patch].
func (h *ProfileHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := ctx.Value(httpx.CtxKeyUserID).(string)
	if !ok || userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "malformed request body")
		return
	}
	if req.Email == nil && req.Name == nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "nothing to update")
		return
	}

	user, err := h.AuthService.UpdateProfile(ctx, userID, req.Email, req.Name)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, newUserResponse(user))
}
