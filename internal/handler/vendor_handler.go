package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-pos-backend/internal/service"
)

type VendorHandler struct {
	vendorService service.VendorService
}

func NewVendorHandler(vendorService service.VendorService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService}
}

// GET /api/v1/vendors
func (h *VendorHandler) GetVendors(c *fiber.Ctx) error {
	vendors, err := h.vendorService.List(actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(vendors)
}

// GET /api/v1/vendors/:id
func (h *VendorHandler) GetVendor(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	vendor, err := h.vendorService.Get(actorFromCtx(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(vendor)
}

// POST /api/v1/vendors
func (h *VendorHandler) CreateVendor(c *fiber.Ctx) error {
	var input service.VendorInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	vendor, err := h.vendorService.Create(actorFromCtx(c), &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Vendor created", "data": vendor})
}

// PUT /api/v1/vendors/:id
func (h *VendorHandler) UpdateVendor(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var input service.VendorInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	vendor, err := h.vendorService.Update(actorFromCtx(c), id, &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vendor updated", "data": vendor})
}

// DELETE /api/v1/vendors/:id
func (h *VendorHandler) DeleteVendor(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.vendorService.Delete(actorFromCtx(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Vendor deleted"})
}
