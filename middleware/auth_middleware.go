package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	config "github.com/tandon-kartikeya/cleanroom-bphc/configs"
	"github.com/tandon-kartikeya/cleanroom-bphc/models"
)

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.Config("JWT_SECRET")),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "message": "Missing or malformed JWT", "data": nil})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "message": "Invalid or expired JWT", "data": nil})
}

func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ClaimRole(c) != models.RoleAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Admin access required",
			})
		}
		return c.Next()
	}
}

func FacultyRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ClaimRole(c) != models.RoleFaculty {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: Faculty access required",
			})
		}
		return c.Next()
	}
}

// ClaimRole and ClaimString read the caller's identity out of the verified
// token. Role checking is a pure function of what the request carries; there
// is no ambient admin flag anywhere in the process.
func ClaimRole(c *fiber.Ctx) string {
	return ClaimString(c, "role")
}

func ClaimString(c *fiber.Ctx, key string) string {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	value, _ := claims[key].(string)
	return value
}
