package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/campuslink/auth-portal/internal/api"
	"github.com/campuslink/auth-portal/internal/api/middleware"
	"github.com/campuslink/auth-portal/internal/bootstrap"
	"github.com/campuslink/auth-portal/internal/core/service"
	"github.com/campuslink/auth-portal/internal/pkg/config"
	"github.com/campuslink/auth-portal/pkg/logger"
)

// @title           Campus Auth Portal API
// @version         1.0
// @description     Student and company credential verification.
// @BasePath        /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintln(os.Stderr, "could not load .env file:", err)
	}

	ctx := context.Background()
	cfg := config.MustLoad(ctx)

	logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "auth-portal",
	})
	log := logger.Get()

	if cfg.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; tokens are signed with an empty key")
	}

	app, err := bootstrap.New(ctx, cfg, logger.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialise storage")
	}

	authService := service.NewAuthService(app.Storage, app.Sessions, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth"))

	var sessions middleware.SessionChecker
	if app.Sessions != nil {
		sessions = app.Sessions
	}

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Sessions:    sessions,
		JWTSecret:   cfg.JWTSecret,
		Checks:      app.Checks,
		Log:         logger.Component("http"),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("backend", string(app.Storage.Active(ctx))).
			Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := app.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to close stores")
	}

	log.Info().Msg("server exited")
}
