package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/service"
	"github.com/noah-isme/portfolio-api/internal/utils"
	"github.com/noah-isme/portfolio-api/internal/validation"
)

// ContactDecoder turns a raw body into a validated contact request.
type ContactDecoder interface {
	Decode(body []byte) (dto.ContactRequest, error)
}

// ContactHandler handles contact submissions.
type ContactHandler struct {
	service service.ContactService
	decoder ContactDecoder
	logger  zerolog.Logger
}

// NewContactHandler constructs a contact handler.
func NewContactHandler(service service.ContactService, decoder ContactDecoder, logger zerolog.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		decoder: decoder,
		logger:  logger.With().Str("component", "contact_handler").Logger(),
	}
}

// Register wires contact routes.
func (h *ContactHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
}

func (h *ContactHandler) submit(c *fiber.Ctx) error {
	payload, err := h.decoder.Decode(c.Body())
	if err != nil {
		return h.writeError(c, err)
	}

	response, err := h.service.Submit(c.UserContext(), payload)
	if err != nil {
		return h.writeError(c, err)
	}

	return utils.SendJSON(c, fiber.StatusOK, response)
}

func (h *ContactHandler) writeError(c *fiber.Ctx, err error) error {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		return utils.SendDetail(c, fiber.StatusUnprocessableEntity, validationErr.Issues)
	}

	var persistenceErr *service.PersistenceError
	if errors.As(err, &persistenceErr) {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to store contact submission")
	} else {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to process contact submission")
	}
	return utils.SendDetail(c, fiber.StatusInternalServerError, err.Error())
}
