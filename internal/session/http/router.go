package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/session/service"
	"github.com/aussiebroadwan/sessiond/internal/session/store"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/slogx"

	_ "github.com/aussiebroadwan/sessiond/api/session" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion  string
	startTime     time.Time
	logger        *slog.Logger
	secureCookies bool

	store        store.Store
	AuthService  *service.AuthService
	TokenService *service.TokenService
}

func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	allowedOrigins []string,
	secureCookies bool,
) *Router {
	r := &Router{
		Mux:           http.NewServeMux(),
		buildVersion:  buildVersion,
		startTime:     time.Now(),
		logger:        logger,
		secureCookies: secureCookies,
		store:         st,
	}

	// Global middleware chain: request logging, then CORS for the browser
	// client. Rate limiting is handled upstream by the reverse proxy.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.CORS(allowedOrigins),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerProfile()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Sessiond API
//	@version		0.1.0
//	@description	Session-token service for the web client: registration, login with dual
//	@description	JWT issuance, single-use refresh-token rotation with server-side
//	@description	revocation, and profile management.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/sessiond
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /v1/auth/register", &RegisterHandler{AuthService: r.AuthService})

	r.Mux.Handle("POST /v1/auth/login", &LoginHandler{
		AuthService:   r.AuthService,
		SecureCookies: r.secureCookies,
	})

	r.Mux.Handle("POST /v1/auth/refresh", &RefreshHandler{
		AuthService:   r.AuthService,
		SecureCookies: r.secureCookies,
	})

	// Logout needs to know who is logging out, so it sits behind authn.
	r.Mux.Handle("POST /v1/auth/logout", httpx.Chain(
		&LogoutHandler{AuthService: r.AuthService, SecureCookies: r.secureCookies},
		httpx.AuthnMiddleware(r.TokenService.Access),
	))
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{AuthService: r.AuthService}
	authn := httpx.AuthnMiddleware(r.TokenService.Access)

	r.Mux.Handle("GET /v1/profile", httpx.Chain(http.HandlerFunc(h.HandleGet), authn))
	r.Mux.Handle("PATCH /v1/profile", httpx.Chain(http.HandlerFunc(h.HandlePatch), authn))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))
}
