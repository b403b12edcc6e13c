package handlers

import (
	"errors"
	"fmt"
	"log"

	"phoneshop/internal/gateway"
	"phoneshop/internal/repositories"
	"phoneshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps service and repository errors onto HTTP statuses:
// not-found to 404, conflicts and rejected input to 400, anything else to a
// logged 500 with a generic body.
func respondError(c *fiber.Ctx, err error) error {
	var productMissing *repositories.ProductMissingError
	var insufficientStock *repositories.InsufficientStockError

	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": err.Error(),
		})
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrInvalidPaymentMethod),
		errors.Is(err, gateway.ErrInvalidInfo),
		errors.As(err, &productMissing),
		errors.As(err, &insufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": err.Error(),
		})
	default:
		log.Printf("Unexpected error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal server error",
		})
	}
}

// respondValidation renders a validator error as a field-to-message map.
func respondValidation(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  errorMessages,
	})
}

// respondBadBody renders a body-parsing failure.
func respondBadBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
