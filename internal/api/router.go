package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/identra/identity-service/docs"
	"github.com/identra/identity-service/internal/api/handler"
	"github.com/identra/identity-service/internal/api/middleware"
	"github.com/identra/identity-service/internal/core/access"
	"github.com/identra/identity-service/internal/core/domain"
	"github.com/identra/identity-service/internal/core/ports"
)

// Dependencies carries everything the router needs. Mongo and Redis are nil
// when the in-memory backends are configured; they only feed the readiness
// probe here.
type Dependencies struct {
	Auth          ports.AuthService
	Registrations ports.RegistrationService
	Sessions      ports.SessionService

	Mongo *mongo.Database
	Redis *redis.Client

	Log           zerolog.Logger
	RememberMeTTL time.Duration
}

// Rules returns the demo's ordered access rule table. First matching pattern
// wins; /who_am_i is deliberately public with the handler rejecting
// anonymous callers, matching the original route configuration.
func Rules() []access.Rule {
	return []access.Rule{
		{Pattern: "/login", Require: access.Public()},
		{Pattern: "/logout", Require: access.Public()},
		{Pattern: "/logout_success", Require: access.Public()},
		{Pattern: "/register", Require: access.Public()},
		{Pattern: "/who_am_i", Require: access.Public()},
		{Pattern: "/am_i_admin", Require: access.RequireRole(domain.RoleAdmin)},
		{Pattern: "/am_i_user", Require: access.RequireRole(domain.RoleUser)},
		{Pattern: "/health/**", Require: access.Public()},
		{Pattern: "/health", Require: access.Public()},
		{Pattern: "/metrics", Require: access.Public()},
		{Pattern: "/swagger/**", Require: access.Public()},
	}
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity_http"))

	// Session resolution runs before the access gate so the rule table sees
	// the caller's identity; unmatched paths require authentication.
	engine := access.NewEngine(Rules(), access.Authenticated())
	e.Use(middleware.Session(deps.Sessions))
	e.Use(middleware.Access(engine))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Registrations, deps.Sessions, deps.RememberMeTTL)

	e.POST("/login", authHandler.Login)
	e.GET("/logout", authHandler.Logout)
	e.GET("/logout_success", authHandler.LogoutSuccess)
	e.POST("/register", authHandler.Register)
	e.GET("/who_am_i", authHandler.WhoAmI)
	e.GET("/am_i_admin", authHandler.AmIAdmin)
	e.GET("/am_i_user", authHandler.AmIUser)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
