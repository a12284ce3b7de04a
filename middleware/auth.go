package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mdrsisme/lisan-sign/utils"
)

// AuthRequired validates the access token and injects its claims into the
// request context. The browser clients send the token as an httpOnly cookie;
// the Authorization header is accepted as a fallback for API clients.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies("accessToken")
		if tokenString == "" {
			authHeader := c.Get("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return utils.Fail(c, http.StatusUnauthorized, "Unauthorized: No token provided")
		}

		payload, err := utils.ValidateAccessToken(tokenString)
		if err != nil {
			return utils.Fail(c, http.StatusUnauthorized, "Unauthorized: Invalid token")
		}

		c.Locals("user_id", payload.UserID)
		c.Locals("role", payload.Role)
		c.Locals("email", payload.Email)
		return c.Next()
	}
}

// AdminRequired gates a route to admins, must be placed after AuthRequired
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role != "admin" {
			return utils.Fail(c, http.StatusForbidden, "Forbidden: Admin access required")
		}
		return c.Next()
	}
}
