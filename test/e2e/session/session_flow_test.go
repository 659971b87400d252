package session_test

import (
	"bytes"
	"net/http"
	"net/url"
	"testing"

	sessionhttp "github.com/aussiebroadwan/sessiond/internal/session/http"
	"github.com/stretchr/testify/require"
)

// TestRegisterLoginRefreshLogout walks the whole session lifecycle:
// 1. Register an account
// 2. Login and receive a token pair plus the refresh cookie
// 3. Refresh via the cookie and verify rotation
// 4. Replay the consumed token and get rejected
// 5. Logout and verify the session is dead server-side
func TestRegisterLoginRefreshLogout(t *testing.T) {
	e := setupServer(t)

	user := register(t, e)
	require.Equal(t, testEmail, user.Email)

	session := login(t, e)
	require.NotEmpty(t, session.AccessToken)
	require.NotEmpty(t, session.RefreshToken)
	require.Equal(t, "Bearer", session.TokenType)

	// The jar picked up the refresh cookie on login.
	base, err := url.Parse(e.baseURL + "/v1/auth")
	require.NoError(t, err)
	require.NotEmpty(t, e.client.Jar.Cookies(base))

	// Refresh rides on the cookie alone, no body needed.
	resp := e.post(t, "/v1/auth/refresh", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := decodeBody[sessionhttp.TokenResponse](t, resp)
	require.NotEqual(t, session.RefreshToken, rotated.RefreshToken)
	require.NotEqual(t, session.AccessToken, rotated.AccessToken)

	// The consumed token is dead when presented outside the cookie flow.
	resp = postBare(t, e, session.RefreshToken)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logout with the rotated access token.
	resp = e.post(t, "/v1/auth/logout", nil, rotated.AccessToken)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Nothing refreshes after logout, not even the last-issued token.
	resp = postBare(t, e, rotated.RefreshToken)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfileRoundTrip(t *testing.T) {
	e := setupServer(t)

	register(t, e)
	session := login(t, e)

	resp := e.do(t, http.MethodGet, "/v1/profile", nil, session.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeBody[sessionhttp.UserResponse](t, resp)
	require.Equal(t, testEmail, profile.Email)

	name := "Annie"
	resp = e.do(t, http.MethodPatch, "/v1/profile", sessionhttp.UpdateProfileRequest{Name: &name}, session.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Annie", decodeBody[sessionhttp.UserResponse](t, resp).Name)

	// Unauthenticated access stays out.
	resp = e.do(t, http.MethodGet, "/v1/profile", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	e := setupServer(t)

	register(t, e)
	session := login(t, e)

	// Fire several refreshes with the same token through a jarless client so
	// every attempt presents the original value. The compare-and-swap on the
	// stored fingerprint lets at most one win.
	const attempts = 5
	body := []byte(`{"refresh_token":"` + session.RefreshToken + `"}`)
	bare := &http.Client{}

	codes := make(chan int, attempts)
	for range attempts {
		go func() {
			resp, err := bare.Post(e.baseURL+"/v1/auth/refresh", "application/json", bytes.NewReader(body))
			if err != nil {
				codes <- 0
				return
			}
			defer resp.Body.Close()
			codes <- resp.StatusCode
		}()
	}

	wins := 0
	for range attempts {
		if <-codes == http.StatusOK {
			wins++
		}
	}
	require.LessOrEqual(t, wins, 1, "at most one concurrent refresh may succeed")
}

func TestHealthProbes(t *testing.T) {
	e := setupServer(t)

	resp := e.do(t, http.MethodGet, "/livez", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/readyz", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
