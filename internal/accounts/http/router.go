package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/chirpdev/accounts/internal/accounts/service"
	"github.com/chirpdev/accounts/internal/accounts/store"
	"github.com/chirpdev/accounts/pkg/httpx"
	"github.com/chirpdev/accounts/pkg/jwtx"
	"github.com/chirpdev/accounts/pkg/slogx"

	_ "github.com/chirpdev/accounts/api/accounts" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	signer       jwtx.Signer
	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store           store.Store
	AccountService  *service.AccountService
	PasswordService *service.PasswordService
	UserService     *service.UserService
}

func NewRouter(
	signer jwtx.Signer,
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		signer:       signer,
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Accounts Service API
//	@version		0.1.0
//	@description	User account service providing registration, credential sign-in with
//	@description	JWT session tokens, and a single-use emailed password reset flow.
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
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerUsers() {
	signupHandler := &SignUpHandler{AccountService: r.AccountService}
	signinHandler := &SignInHandler{AccountService: r.AccountService}
	forgotHandler := &ForgotPasswordHandler{PasswordService: r.PasswordService}
	resetHandler := &ResetPasswordHandler{PasswordService: r.PasswordService}

	r.Mux.Handle("POST /v1/users/signup", signupHandler)
	r.Mux.Handle("POST /v1/users/signin", signinHandler)
	r.Mux.Handle("POST /v1/users/forgot-password", forgotHandler)
	r.Mux.Handle("POST /v1/users/reset-password", resetHandler)

	usersHandler := &UsersHandler{UserService: r.UserService}

	// Listing and lookup sit behind the session token gate.
	securedList := httpx.Chain(http.HandlerFunc(usersHandler.HandleList),
		httpx.AuthnMiddleware(r.verifier),
	)
	securedGet := httpx.Chain(http.HandlerFunc(usersHandler.HandleGet),
		httpx.AuthnMiddleware(r.verifier),
	)

	r.Mux.Handle("GET /v1/users", securedList)
	r.Mux.Handle("GET /v1/users/{id}", securedGet)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.signer))
}
