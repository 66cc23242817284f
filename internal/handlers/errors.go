package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/example/yeny-crm/internal/services"
)

// toHTTPError translates core errors into fiber errors. Anything not in
// the taxonomy bubbles up as a 500 through the recover middleware.
func toHTTPError(err error) error {
	if ve, ok := services.AsValidationError(err); ok {
		return fiber.NewError(fiber.StatusBadRequest, ve.Message)
	}
	if errors.Is(err, services.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if errors.Is(err, services.ErrForbidden) {
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}
	return err
}
