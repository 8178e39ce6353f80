package middleware

import (
	"errors"
	"log"

	"gudang/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// MsgInternal replaces unexpected error details in production.
const MsgInternal = "Internal server error"

// ErrorHandler renders every error returned by a handler as
// {status:"error", message, errors?}.
func ErrorHandler(isProduction bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			body := fiber.Map{"status": "error", "message": appErr.Message}
			if len(appErr.Errors) > 0 {
				body["errors"] = appErr.Errors
			}
			return c.Status(appErr.StatusCode).JSON(body)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			message := fiberErr.Message
			if fiberErr.Code == fiber.StatusNotFound {
				message = "Route " + c.OriginalURL() + " not found"
			}
			return c.Status(fiberErr.Code).JSON(fiber.Map{"status": "error", "message": message})
		}

		log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
		message := MsgInternal
		if !isProduction {
			message = err.Error()
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": message})
	}
}
