package handlers

import (
	"errors"
	"log"

	"kriya/internal/repositories"
	"kriya/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respond writes the standard success envelope.
func respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// respondError writes the standard failure envelope.
func respondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// respondServiceError maps a service-layer error to the failure envelope.
// Unrecognized errors surface as 500s; nothing is allowed to crash the
// process.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return respondError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return respondError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return respondError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return respondError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict):
		return respondError(c, fiber.StatusConflict, err.Error())
	default:
		log.Printf("Internal error: %v", err)
		return respondError(c, fiber.StatusInternalServerError, err.Error())
	}
}
