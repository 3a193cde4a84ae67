package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/campuslink/auth-portal/docs"
	"github.com/campuslink/auth-portal/internal/api/handler"
	"github.com/campuslink/auth-portal/internal/api/middleware"
	"github.com/campuslink/auth-portal/internal/core/ports"
)

// Deps carries everything the router needs. Sessions may be nil.
type Deps struct {
	AuthService ports.AuthService
	Sessions    middleware.SessionChecker
	JWTSecret   string
	Checks      map[string]handler.CheckFunc
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	authMiddleware := middleware.Auth(d.JWTSecret, d.Sessions)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/student/login", authHandler.StudentLogin)
	auth.POST("/company/login", authHandler.CompanyLogin)
	auth.POST("/student/register", authHandler.StudentRegister)
	auth.POST("/company/register", authHandler.CompanyRegister)
	auth.GET("/user", authHandler.CurrentUser, authMiddleware)
	auth.POST("/logout", authHandler.Logout, authMiddleware)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Operations ---
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
