package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/portfolio-api/internal/dto"
	"github.com/noah-isme/portfolio-api/internal/utils"
)

const (
	rootMessage  = "Hello from the Portfolio API backend!"
	helloMessage = "Hello from the backend API!"
)

// Root answers GET / to confirm the service is reachable.
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendJSON(c, fiber.StatusOK, dto.MessageResponse{Message: rootMessage})
	}
}

// Hello answers GET /api/hello.
func Hello() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return utils.SendJSON(c, fiber.StatusOK, dto.MessageResponse{Message: helloMessage})
	}
}
