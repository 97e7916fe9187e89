package httpapi

import (
	"errors"

	"github.com/aivanovs/issuetracker/internal/common"
	"github.com/gofiber/fiber/v2"
)

// toFiberError maps domain sentinel errors onto HTTP status codes. Anything
// unrecognized becomes a plain 500 so internals never leak into responses.
func toFiberError(err error) error {
	switch {
	case errors.Is(err, common.ErrDuplicateEmail):
		return fiber.NewError(fiber.StatusConflict, "email already in use")
	case errors.Is(err, common.ErrInvalidCredentials):
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrorUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		return fiber.NewError(fiber.StatusNotFound, "not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}
}

// errorHandler renders every fiber error as {"error": message} JSON.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
