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

	"github.com/abdusco/shortlinks/internal/auth"
	"github.com/abdusco/shortlinks/internal/config"
	"github.com/abdusco/shortlinks/internal/db"
	"github.com/abdusco/shortlinks/internal/handler"
	"github.com/abdusco/shortlinks/internal/links"
	"github.com/abdusco/shortlinks/internal/logger"
	"github.com/abdusco/shortlinks/internal/repo"
	"github.com/abdusco/shortlinks/internal/slug"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse configuration from environment")
	}

	if err := logger.Setup(cfg.LogLevel, cfg.Debug); err != nil {
		log.Fatal().Err(err).Msg("failed to set up logging")
	}

	log.Info().
		Interface("config", cfg.Redacted()).
		Msg("current configuration")

	if cfg.Password == "" {
		log.Warn().Msg("no PASSWORD set - anyone can log in")
	}
	if cfg.PublicMode {
		log.Warn().Msg("public mode enabled - anyone can create links")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("application error")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	log.Info().
		Str("version", version).
		Str("build_time", buildTime).
		Msg("starting application")

	generator, err := slug.New(cfg.SlugStyle, cfg.SlugLength)
	if err != nil {
		return fmt.Errorf("invalid slug settings: %w", err)
	}

	// Regenerated on every start, so a restart logs everyone out.
	secret, err := auth.NewSecret()
	if err != nil {
		return err
	}
	gate := auth.NewGate(secret, auth.Options{
		Password:   cfg.Password,
		PublicMode: cfg.PublicMode,
	})

	dbInstance, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("location", cfg.DBPath).Msg("failed to initialize database")
	}
	defer dbInstance.Close()

	engine := links.NewEngine(
		repo.NewLinksRepo(dbInstance),
		repo.NewHitsRepo(dbInstance),
		generator,
		links.Config{},
	)

	e := handler.NewServer(handler.Deps{
		Engine:            engine,
		Gate:              gate,
		PermanentRedirect: cfg.PermanentRedirect(),
		SiteURL:           cfg.SiteURL,
		Version:           version,
	})
	defer e.Close()

	log.Info().Str("address", cfg.Address()).Msg("server starting")

	return runServer(ctx, e, cfg.Address())
}

func runServer(ctx context.Context, e *echo.Echo, address string) error {
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(address)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutdown signal received, gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during graceful shutdown")
	}

	if err := <-serverErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server error")
	}

	log.Info().Msg("server stopped")
	return nil
}
