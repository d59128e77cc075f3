package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/service"
	"github.com/noah-isme/portfolio-api/internal/utils"
)

// DiagnosticsHandler serves the database connectivity report.
type DiagnosticsHandler struct {
	service service.DiagnosticsService
	logger  zerolog.Logger
}

// NewDiagnosticsHandler constructs a diagnostics handler.
func NewDiagnosticsHandler(service service.DiagnosticsService, logger zerolog.Logger) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		service: service,
		logger:  logger.With().Str("component", "diagnostics_handler").Logger(),
	}
}

// Register wires the diagnostics route.
func (h *DiagnosticsHandler) Register(router fiber.Router) {
	router.Get("/test", h.report)
}

// report always answers 200; failures are described inside the body.
func (h *DiagnosticsHandler) report(c *fiber.Ctx) error {
	report := h.service.Report(c.UserContext())
	requestLogger(h.logger, c).Debug().Str("database", report.Database).Msg("diagnostics served")
	return utils.SendJSON(c, fiber.StatusOK, report)
}
