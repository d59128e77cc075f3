package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/portfolio-api/internal/config"
	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/observability"
	"github.com/noah-isme/portfolio-api/internal/repository"
)

const (
	maxListedCollections = 10
	maxErrorDetail       = 50
)

// Status strings reported by the diagnostics endpoint.
const (
	StatusBackendRunning        = "✅ Running"
	StatusDatabaseUnavailable   = "❌ Not Available"
	StatusDatabaseMissing       = "❌ Database module not found (set DATABASE_URL)"
	StatusDatabaseUninitialized = "⚠️  Available but not initialized"
	StatusDatabaseAvailable     = "✅ Available"
	StatusDatabaseWorking       = "✅ Connected & Working"
	StatusSet                   = "✅ Set"
	StatusNotSet                = "❌ Not Set"
	ConnectionConnected         = "Connected"
	ConnectionNotConnected      = "Not Connected"
)

// DiagnosticsService reports database reachability without ever failing.
type DiagnosticsService interface {
	Report(ctx context.Context) dto.DiagnosticsResponse
}

type diagnosticsService struct {
	inspector repository.DatabaseInspector
	cfg       config.Config
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewDiagnosticsService constructs the diagnostics reporter. inspector may be nil
// when no database is configured.
func NewDiagnosticsService(inspector repository.DatabaseInspector, cfg config.Config, logger zerolog.Logger) DiagnosticsService {
	return &diagnosticsService{
		inspector: inspector,
		cfg:       cfg,
		logger:    logger.With().Str("component", "diagnostics_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/portfolio-api/internal/service/diagnostics"),
	}
}

func (s *diagnosticsService) Report(ctx context.Context) dto.DiagnosticsResponse {
	ctx, span := s.tracer.Start(ctx, "diagnostics.report")
	defer span.End()

	report := dto.DiagnosticsResponse{
		Backend:          StatusBackendRunning,
		Database:         StatusDatabaseUnavailable,
		ConnectionStatus: ConnectionNotConnected,
		Collections:      []string{},
	}

	s.probe(ctx, &report)

	report.DatabaseURL = presence(s.cfg.DatabaseURLSet())
	report.DatabaseName = presence(s.cfg.DatabaseNameSet())

	if report.Database == StatusDatabaseWorking {
		observability.DiagnosticsDatabaseUp().Set(1)
	} else {
		observability.DiagnosticsDatabaseUp().Set(0)
	}

	return report
}

func (s *diagnosticsService) probe(ctx context.Context, report *dto.DiagnosticsResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Interface("panic", r).Msg("database probe panicked")
			report.Database = "❌ Error: " + truncateRunes(fmt.Sprint(r), maxErrorDetail)
		}
	}()

	if s.inspector == nil {
		report.Database = StatusDatabaseMissing
		return
	}
	if !s.inspector.Initialized() {
		report.Database = StatusDatabaseUninitialized
		return
	}

	report.Database = StatusDatabaseAvailable
	report.ConnectionStatus = ConnectionConnected

	names, err := s.inspector.ListCollections(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to list collections")
		report.Database = "⚠️  Connected but Error: " + truncateRunes(err.Error(), maxErrorDetail)
		return
	}

	if len(names) > maxListedCollections {
		names = names[:maxListedCollections]
	}
	report.Collections = append(report.Collections, names...)
	report.Database = StatusDatabaseWorking
}

func presence(set bool) string {
	if set {
		return StatusSet
	}
	return StatusNotSet
}
