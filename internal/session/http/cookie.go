package http

import (
	"net/http"
	"time"
)

// RefreshCookieName is the HttpOnly cookie carrying the refresh token for
// browser clients. Scoped to the auth endpoints so it never rides along on
// profile or asset requests.
const (
	RefreshCookieName = "sessiond_refresh"
	refreshCookiePath = "/v1/auth"
)

func setRefreshCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}
