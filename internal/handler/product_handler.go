package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-pos-backend/internal/service"
)

type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProduct creates a product with its variants
// POST /api/v1/products
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var input service.CreateProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.productService.CreateProduct(actorFromCtx(c), &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Product created", "data": product})
}

// GetProducts lists the organization's products
// GET /api/v1/products?include_archived=true
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	includeArchived := c.QueryBool("include_archived", false)
	products, err := h.productService.ListProducts(actorFromCtx(c), includeArchived)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// GetProduct fetches one product with its variants
// GET /api/v1/products/:id
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	product, err := h.productService.GetProduct(actorFromCtx(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// UpdateProduct applies the provided descriptive fields
// PUT /api/v1/products/:id
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var input service.UpdateProductInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	product, err := h.productService.UpdateProduct(actorFromCtx(c), id, &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product updated", "data": product})
}

// AddVariant appends a variant to an existing product
// POST /api/v1/products/:id/variants
func (h *ProductHandler) AddVariant(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var input service.VariantInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	variant, err := h.productService.AddVariant(actorFromCtx(c), id, &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Variant created", "data": variant})
}

// ArchiveProduct hides a product from active listings
// PUT /api/v1/products/:id/archive
func (h *ProductHandler) ArchiveProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.productService.ArchiveProduct(actorFromCtx(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product archived"})
}

// UnarchiveProduct restores an archived product
// PUT /api/v1/products/:id/unarchive
func (h *ProductHandler) UnarchiveProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.productService.UnarchiveProduct(actorFromCtx(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product restored"})
}

// DeleteProduct permanently removes a product; ledger rows survive with
// their references cleared
// DELETE /api/v1/products/:id
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := h.productService.DeleteProduct(actorFromCtx(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}
