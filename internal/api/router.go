package api

import (
	"database/sql"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/accessdesk/user-portal/internal/api/handler"
	"github.com/accessdesk/user-portal/internal/api/middleware"
	"github.com/accessdesk/user-portal/internal/core/access"
	"github.com/accessdesk/user-portal/internal/core/service"
	"github.com/accessdesk/user-portal/internal/infrastructure/db/postgres"
	redisinfra "github.com/accessdesk/user-portal/internal/infrastructure/db/redis"
	"github.com/accessdesk/user-portal/internal/infrastructure/http/handlers"
)

// RouterDeps carries the shared resources the router wires together.
type RouterDeps struct {
	DB        *sql.DB
	Redis     *redis.Client
	Cache     *service.CredentialCache
	JWTSecret string
	TokenTTL  time.Duration
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes
// registered. Every request passes the session middleware (which only
// annotates the context) and then the policy gate, which rejects
// unauthorized requests before any business handler runs.
func NewRouter(deps RouterDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("user_portal"))
	e.Use(middleware.Session(deps.JWTSecret))
	e.Use(middleware.PolicyGate())

	// --- Dependencies ---
	directory := postgres.NewDirectory(deps.DB)
	codec := service.NewPasswordCodec()
	resolver := service.NewResolver(directory)
	postAuth := access.NewPostAuthRouter(deps.Log)

	var throttle service.LoginThrottle
	if deps.Redis != nil {
		throttle = redisinfra.NewLoginThrottle(deps.Redis, 0, 0)
	}

	authService := service.NewAuthService(
		resolver, codec, directory, postAuth, throttle,
		deps.JWTSecret, deps.TokenTTL, deps.Log,
	)
	accountService := service.NewAccountService(directory, codec, deps.Log)

	authHandler := handler.NewAuthHandler(authService, deps.TokenTTL)
	adminHandler := handler.NewAdminHandler(accountService)
	userHandler := handler.NewUserHandler(accountService)

	// --- Auth routes (public by policy) ---
	auth := e.Group("/api/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/register", authHandler.Register)

	// --- Admin surface (ROLE_ADMIN by policy) ---
	admin := e.Group("/api/admin")
	admin.GET("/users", adminHandler.ListUsers)
	admin.POST("/users", adminHandler.CreateUser)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/roles", adminHandler.ListRoles)

	// --- User surface (ROLE_USER or ROLE_ADMIN by policy) ---
	user := e.Group("/api/user")
	user.GET("/me", userHandler.Me)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.DB, deps.Redis, deps.Cache)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
