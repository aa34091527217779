package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/snakegame/snake-api/internal/api/handler"
	"github.com/snakegame/snake-api/internal/api/middleware"
	"github.com/snakegame/snake-api/internal/core/ports"
)

const bodyLimit = "10M"

// Deps carries everything the HTTP layer needs. Services are built by the
// caller so the router stays free of storage concerns.
type Deps struct {
	Auth        ports.AuthService
	Scores      ports.ScoreService
	Leaderboard ports.LeaderboardService

	// RateLimiter throttles /api per client IP; nil disables throttling.
	RateLimiter ports.RateLimiter
	Reporter    ports.ErrorReporter

	HealthChecks  map[string]handler.Check
	Environment   string
	ClientURL     string
	SecureCookies bool

	// Registerer receives the HTTP request collectors. Defaults to the
	// global Prometheus registry.
	Registerer prometheus.Registerer
	Log        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log, deps.Reporter)

	registerer := deps.Registerer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{strings.TrimRight(deps.ClientURL, "/")},
		AllowCredentials: true,
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions,
		},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "snake",
		Subsystem:  "http",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth, handler.AuthHandlerOptions{
		ClientURL:     deps.ClientURL,
		SecureCookies: deps.SecureCookies,
	}, deps.Log)
	gameHandler := handler.NewGameHandler(deps.Scores)
	leaderboardHandler := handler.NewLeaderboardHandler(deps.Leaderboard)
	adminHandler := handler.NewAdminHandler(deps.Auth, deps.Log)
	healthHandler := handler.NewHealthHandler(deps.Environment, deps.HealthChecks)

	requireAuth := middleware.RequireAuth(deps.Auth)
	optionalAuth := middleware.OptionalAuth(deps.Auth, deps.Log)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	if deps.RateLimiter != nil {
		api.Use(middleware.RateLimit(deps.RateLimiter, deps.Log))
	}

	// --- Health probes (no auth required) ---
	api.GET("/health", healthHandler.Liveness)
	api.GET("/health/ready", healthHandler.Readiness)

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/login", authHandler.Login)
	auth.GET("/google", authHandler.GoogleStart)
	auth.GET("/google/callback", authHandler.GoogleCallback)
	auth.POST("/logout", authHandler.Logout, optionalAuth)
	auth.GET("/me", authHandler.Me, requireAuth)

	// --- Game routes ---
	game := api.Group("/game", requireAuth)
	game.POST("/score", gameHandler.SubmitScore)
	game.GET("/scores", gameHandler.Scores)

	api.GET("/leaderboard", leaderboardHandler.Top, optionalAuth)

	// --- Admin routes ---
	admin := api.Group("/admin", requireAuth, middleware.RequireAdmin())
	admin.PATCH("/users/:id/active", adminHandler.SetActive)

	return e
}
