package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/session/domain"
	"github.com/aussiebroadwan/sessiond/internal/session/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
)

// Request/response shapes for the JSON API.

type RegisterRequest struct {
	Email    string `json:"email" example:"ann@example.com"`
	Password string `json:"password" example:"password123"`
	Name     string `json:"name" example:"Ann"`
}

type LoginRequest struct {
	Email    string `json:"email" example:"ann@example.com"`
	Password string `json:"password" example:"password123"`
}

type RefreshRequest struct {
	// RefreshToken is optional for browser clients, which carry the token in
	// the refresh cookie instead.
	RefreshToken string `json:"refresh_token,omitempty"`
}

type UpdateProfileRequest struct {
	Email *string `json:"email,omitempty"`
	Name  *string `json:"name,omitempty"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

type LoginResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
	Checks  any    `json:"checks,omitempty"`
}

func newUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

func newTokenResponse(p domain.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:  p.AccessToken,
		RefreshToken: p.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(p.ExpiresIn.Seconds()),
	}
}

// writeServiceError maps the service taxonomy onto transport codes. Anything
// outside the taxonomy is an infrastructure failure the client may retry
// whole; it logs at error level and surfaces as a bare 500.
func writeServiceError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials or token")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "no such user")
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, "conflict", "email already in use")
	default:
		log.Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}
