package utils

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// DetailResponse is the error body shape used across the API.
type DetailResponse struct {
	Detail interface{} `json:"detail"`
}

// SendJSON writes payload with the given status, defaulting to 200.
func SendJSON(c *fiber.Ctx, status int, payload interface{}) error {
	if status == 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(payload)
}

// SendDetail writes {"detail": detail} with the given status code.
func SendDetail(c *fiber.Ctx, status int, detail interface{}) error {
	if detail == nil || detail == "" {
		detail = "error"
	}
	return c.Status(status).JSON(DetailResponse{Detail: detail})
}

// ErrorHandler renders errors that escape handlers, including fiber's own 404 and 405.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
		message = fiberErr.Message
	}
	if status == fiber.StatusNotFound || status == fiber.StatusMethodNotAllowed {
		message = http.StatusText(status)
	}

	return SendDetail(c, status, message)
}
