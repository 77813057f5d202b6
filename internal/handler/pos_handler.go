package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-pos-backend/internal/service"
)

type POSHandler struct {
	saleService service.SaleService
}

func NewPOSHandler(saleService service.SaleService) *POSHandler {
	return &POSHandler{saleService: saleService}
}

// CreateSale commits a multi-line sale atomically
// POST /api/v1/pos/sales
func (h *POSHandler) CreateSale(c *fiber.Ctx) error {
	var input service.CreateSaleInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	sale, err := h.saleService.CreateSale(actorFromCtx(c), &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Sale completed", "data": sale})
}

// GetSales lists the organization's sales, newest first
// GET /api/v1/pos/sales?limit=50&offset=0
func (h *POSHandler) GetSales(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	sales, err := h.saleService.ListSales(actorFromCtx(c), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}

// GetSale fetches one sale with its line items
// GET /api/v1/pos/sales/:id
func (h *POSHandler) GetSale(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	sale, err := h.saleService.GetSale(actorFromCtx(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}
