package handlers

import "github.com/gofiber/fiber/v2"

// respond writes {status:"success", message, ...data}.
func respond(c *fiber.Ctx, status int, message string, data fiber.Map) error {
	body := fiber.Map{
		"status":  "success",
		"message": message,
	}
	for k, v := range data {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}
