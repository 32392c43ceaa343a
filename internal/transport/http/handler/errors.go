package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sakashimaa/planary/internal/repository"
	"github.com/sakashimaa/planary/internal/service"
	"github.com/sakashimaa/planary/pkg/token"
)

func statusFromError(err error) int {
	switch {
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, repository.ErrUserAlreadyExists),
		errors.Is(err, service.ErrInvalidClock):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, token.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, repository.ErrActivityNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func errorResponse(c *fiber.Ctx, err error) error {
	status := statusFromError(err)

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		message = "internal server error"
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}
