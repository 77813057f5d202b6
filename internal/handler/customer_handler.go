package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-pos-backend/internal/service"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// GET /api/v1/customers
func (h *CustomerHandler) GetCustomers(c *fiber.Ctx) error {
	customers, err := h.customerService.List(actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customers)
}

// GET /api/v1/customers/:id
func (h *CustomerHandler) GetCustomer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	customer, err := h.customerService.Get(actorFromCtx(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(customer)
}

// POST /api/v1/customers
func (h *CustomerHandler) CreateCustomer(c *fiber.Ctx) error {
	var input service.CustomerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	customer, err := h.customerService.Create(actorFromCtx(c), &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Customer created", "data": customer})
}

// PUT /api/v1/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var input service.CustomerInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	customer, err := h.customerService.Update(actorFromCtx(c), id, &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer updated", "data": customer})
}

// DELETE /api/v1/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.customerService.Delete(actorFromCtx(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Customer deleted"})
}
