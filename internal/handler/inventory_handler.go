package handler

import (
	"github.com/gofiber/fiber/v2"

	"go-pos-backend/internal/service"
)

type InventoryHandler struct {
	requestService service.ChangeRequestService
}

func NewInventoryHandler(requestService service.ChangeRequestService) *InventoryHandler {
	return &InventoryHandler{requestService: requestService}
}

// SubmitRequest queues a change proposal for review
// POST /api/v1/inventory/requests
func (h *InventoryHandler) SubmitRequest(c *fiber.Ctx) error {
	var input service.SubmitChangeRequestInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	req, err := h.requestService.Submit(actorFromCtx(c), &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Request submitted", "data": req})
}

// GetPendingRequests lists the organization's review queue, oldest first
// GET /api/v1/inventory/requests/pending
func (h *InventoryHandler) GetPendingRequests(c *fiber.Ctx) error {
	requests, err := h.requestService.ListPending(actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

// ApproveRequest applies a pending request and records the outcome
// PUT /api/v1/inventory/requests/:id/approve
func (h *InventoryHandler) ApproveRequest(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	entry, err := h.requestService.Approve(actorFromCtx(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Request approved", "data": entry})
}

// RejectRequest declines a pending request without touching inventory
// PUT /api/v1/inventory/requests/:id/reject
func (h *InventoryHandler) RejectRequest(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	entry, err := h.requestService.Reject(actorFromCtx(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Request rejected", "data": entry})
}
