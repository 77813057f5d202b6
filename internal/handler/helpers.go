package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/service"
)

// actorFromCtx rebuilds the authenticated actor set by the auth middleware.
func actorFromCtx(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if v, ok := c.Locals("user_id").(uuid.UUID); ok {
		actor.UserID = v
	}
	if v, ok := c.Locals("username").(string); ok {
		actor.Username = v
	}
	if v, ok := c.Locals("org_id").(uuid.UUID); ok {
		actor.OrganizationID = v
	}
	if v, ok := c.Locals("role").(model.UserRole); ok {
		actor.Role = v
	}
	return actor
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid %s", name)
	}
	return id, nil
}

// parseDateRange reads optional from/to query params as RFC 3339 timestamps
// or plain dates.
func parseDateRange(c *fiber.Ctx) (from, to *time.Time, err error) {
	if raw := c.Query("from"); raw != "" {
		t, perr := parseTime(raw)
		if perr != nil {
			return nil, nil, apperr.Validation("invalid 'from' timestamp")
		}
		from = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, perr := parseTime(raw)
		if perr != nil {
			return nil, nil, apperr.Validation("invalid 'to' timestamp")
		}
		to = &t
	}
	return from, to, nil
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

// respondError maps the error taxonomy to HTTP statuses. The body always
// carries a machine-readable code next to the human-readable message.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return c.Status(400).JSON(fiber.Map{"code": "validation_error", "error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		return c.Status(404).JSON(fiber.Map{"code": "not_found", "error": err.Error()})
	case errors.Is(err, apperr.ErrInvalidState):
		return c.Status(409).JSON(fiber.Map{"code": "invalid_state", "error": err.Error()})
	case errors.Is(err, apperr.ErrConflict):
		return c.Status(409).JSON(fiber.Map{"code": "conflict", "error": err.Error()})
	case errors.Is(err, apperr.ErrInsufficientStock):
		var stockErr *apperr.InsufficientStockError
		body := fiber.Map{"code": "insufficient_stock", "error": err.Error()}
		if errors.As(err, &stockErr) {
			body["sku"] = stockErr.SKU
			body["available"] = stockErr.Available
			body["requested"] = stockErr.Requested
		}
		return c.Status(422).JSON(body)
	default:
		return c.Status(500).JSON(fiber.Map{"code": "internal_error", "error": "Internal Server Error"})
	}
}
