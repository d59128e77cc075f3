package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/config"
	"github.com/noah-isme/portfolio-api/internal/database"
	"github.com/noah-isme/portfolio-api/internal/handler"
	"github.com/noah-isme/portfolio-api/internal/middleware"
	"github.com/noah-isme/portfolio-api/internal/observability"
	"github.com/noah-isme/portfolio-api/internal/repository"
	"github.com/noah-isme/portfolio-api/internal/router"
	"github.com/noah-isme/portfolio-api/internal/service"
	"github.com/noah-isme/portfolio-api/internal/utils"
	"github.com/noah-isme/portfolio-api/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := newLogger(cfg)
	observability.RegisterMetrics()

	conn, docs := openDocuments(cfg, logger)
	defer func() {
		if err := conn.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close database connection")
		}
	}()

	validate := validator.New(validator.WithRequiredStructEnabled())
	contactValidator, err := validation.NewContactValidator(validate)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to compile contact schema")
	}

	notifier := service.NewContactNotifier(cfg.Email, logger)
	if !cfg.Email.Enabled() {
		logger.Warn().Msg(service.EmailNotConfiguredReason)
	}

	var contactStore repository.DocumentStore = repository.NewUnavailableDocumentRepository(nil)
	var inspector repository.DatabaseInspector
	if docs != nil {
		contactStore = docs
		inspector = docs
	}

	contactService := service.NewContactService(contactStore, contactValidator, notifier, logger)
	diagnosticsService := service.NewDiagnosticsService(inspector, cfg, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ErrorHandler: utils.ErrorHandler,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		ContactHandler:     handler.NewContactHandler(contactService, contactValidator, logger),
		DiagnosticsHandler: handler.NewDiagnosticsHandler(diagnosticsService, logger),
		MetricsEnabled:     true,
	})

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Msg("starting server")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).Level(level).With().
		Timestamp().
		Str("app", cfg.AppName).
		Str("env", cfg.AppEnv).
		Logger()
}

// openDocuments connects the configured backend. A nil repository means no
// DATABASE_URL was given; a failed connection yields a repository that rejects writes.
func openDocuments(cfg config.Config, logger zerolog.Logger) (*database.Connection, repository.DocumentRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := database.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	switch {
	case errors.Is(err, database.ErrNoDatabaseURL):
		logger.Warn().Msg("DATABASE_URL not set; contact submissions will be rejected")
		return nil, nil
	case err != nil:
		logger.Error().Err(err).Msg("failed to connect to database")
		return nil, repository.NewUnavailableDocumentRepository(err)
	}

	if conn.SQL != nil {
		if err := repository.MigrateDocuments(conn.SQL); err != nil {
			logger.Error().Err(err).Msg("failed to migrate documents table")
			_ = conn.Close()
			return nil, repository.NewUnavailableDocumentRepository(err)
		}
		logger.Info().Str("driver", string(conn.Driver)).Msg("database connected")
		return conn, repository.NewGormDocumentRepository(conn.SQL)
	}

	logger.Info().Str("driver", string(conn.Driver)).Msg("database connected")
	if conn.MongoDB != nil {
		return conn, repository.NewMongoDocumentRepository(conn.MongoDB)
	}
	return conn, repository.NewRedisDocumentRepository(conn.Redis)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
