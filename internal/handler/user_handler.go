package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-pos-backend/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUsers lists the organization's accounts
// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.ListUsers(actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// CreateUser adds an account to the organization
// POST /api/v1/users
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var input service.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	user, err := h.userService.CreateUser(actorFromCtx(c), &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "User created", "data": user})
}

// UpdateUser changes role, password or active flag
// PUT /api/v1/users/:id
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var input service.UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	user, err := h.userService.UpdateUser(actorFromCtx(c), id, &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User updated", "data": user})
}

// DeleteUser removes an account; its ledger trail survives anonymized
// DELETE /api/v1/users/:id
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.userService.DeleteUser(actorFromCtx(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}
