package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Every endpoint answers with the same envelope:
// {success, message, data?, error?}.

func Success(c *fiber.Ctx, message string, data interface{}) error {
	body := fiber.Map{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	return c.Status(http.StatusOK).JSON(body)
}

func Fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

// FailWithError passes the upstream error string through in the body, the way
// the admin dashboard expects for 500s.
func FailWithError(c *fiber.Ctx, status int, message string, err error) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"error":   err.Error(),
	})
}
