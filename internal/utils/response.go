package utils

import "github.com/gofiber/fiber/v2"

// JSONSuccess writes the standard success envelope.
func JSONSuccess(c *fiber.Ctx, status int, data interface{}, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"statusCode": status,
		"data":       data,
		"message":    message,
		"success":    true,
	})
}

// JSONError writes the standard failure envelope.
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"statusCode": status,
		"message":    message,
		"success":    false,
		"errors":     []string{},
	})
}
