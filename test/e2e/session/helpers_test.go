package session_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	sessionhttp "github.com/aussiebroadwan/sessiond/internal/session/http"
	"github.com/aussiebroadwan/sessiond/internal/session/service"
	"github.com/aussiebroadwan/sessiond/internal/session/store/drivers/sqlite"
	"github.com/aussiebroadwan/sessiond/pkg/cryptox"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

/*
 * End-to-end tests for the session service: a real HTTP server over the full
 * router assembly, exercised through a cookie-carrying client the way a
 * browser would drive it.
 */

const (
	testEmail    = "ann@example.com"
	testPassword = "Password123!"
	testName     = "Ann"
)

// env is one running service instance plus a client with a cookie jar.
type env struct {
	baseURL string
	client  *http.Client
}

func setupServer(t *testing.T) *env {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "e2e.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	access, err := jwtx.NewSigner("e2e-access-secret", time.Hour, "sessiond-e2e")
	require.NoError(t, err)
	refresh, err := jwtx.NewSigner("e2e-refresh-secret", 24*time.Hour, "sessiond-e2e")
	require.NoError(t, err)

	tokens := &service.TokenService{Access: access, Refresh: refresh}
	auth := &service.AuthService{
		Store:       st,
		Credentials: &service.CredentialService{Store: st, Cost: cryptox.MinCost},
		Tokens:      tokens,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := sessionhttp.NewRouter("e2e", st, logger, nil, false)
	router.AuthService = auth
	router.TokenService = tokens
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &env{
		baseURL: srv.URL,
		client:  &http.Client{Jar: jar},
	}
}

func (e *env) post(t *testing.T, path string, body any, token string) *http.Response {
	t.Helper()
	return e.do(t, http.MethodPost, path, body, token)
}

func (e *env) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()

	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, e.baseURL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// postBare sends a refresh with only the body token, bypassing the cookie
// jar, the way a non-browser client would.
func postBare(t *testing.T, e *env, refreshToken string) *http.Response {
	t.Helper()

	body := []byte(`{"refresh_token":"` + refreshToken + `"}`)
	resp, err := http.Post(e.baseURL+"/v1/auth/refresh", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func register(t *testing.T, e *env) sessionhttp.UserResponse {
	t.Helper()
	resp := e.post(t, "/v1/auth/register", sessionhttp.RegisterRequest{
		Email:    testEmail,
		Password: testPassword,
		Name:     testName,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decodeBody[sessionhttp.UserResponse](t, resp)
}

func login(t *testing.T, e *env) sessionhttp.LoginResponse {
	t.Helper()
	resp := e.post(t, "/v1/auth/login", sessionhttp.LoginRequest{
		Email:    testEmail,
		Password: testPassword,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	return decodeBody[sessionhttp.LoginResponse](t, resp)
}
