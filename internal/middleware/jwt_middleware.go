package middleware

import (
	"log"
	"strings"

	"melodia/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware to check for a valid JWT token. On
// success it loads the customer and stores it in the request locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    "MISSING_TOKEN",
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    "MALFORMED_TOKEN",
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    "INVALID_TOKEN",
				"message": "Invalid or expired token",
			})
		}

		id, _ := claims["id"].(string)
		customer, err := authService.GetCustomer(id)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    "INVALID_TOKEN",
				"message": "Token subject no longer exists",
			})
		}

		// Store the authenticated identity for subsequent handlers.
		c.Locals("customer_id", customer.ID)
		c.Locals("role", customer.Role)
		c.Locals("customer", customer)

		return c.Next()
	}
}

// RoleRequired allows the request through only when the authenticated role is
// one of the given roles. Must run after AuthRequired.
func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"code":    "FORBIDDEN",
			"message": "Insufficient role for this resource",
		})
	}
}
