package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/jwt"
)

// RequireAuth validates the bearer token, checks the strict single session
// against the database and sets the actor's identity in the request context.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if !user.IsActive {
			return c.Status(401).JSON(fiber.Map{"error": "Account is inactive"})
		}
		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}
		if user.OrganizationID == nil {
			return c.Status(403).JSON(fiber.Map{"error": "User belongs to no organization"})
		}

		c.Locals("user_id", user.ID)
		c.Locals("username", user.Username)
		c.Locals("org_id", *user.OrganizationID)
		c.Locals("role", user.Role)

		return c.Next()
	}
}

// RequireRole restricts a route to the given roles.
func RequireRole(roles ...model.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(model.UserRole)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden: insufficient role"})
	}
}
