package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"go-pos-backend/internal/service"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetSummary returns revenue, profit and best sellers for a period
// GET /api/v1/analytics/summary?range=7d
func (h *AnalyticsHandler) GetSummary(c *fiber.Ctx) error {
	now := time.Now()
	var from time.Time

	switch c.Query("range", "7d") {
	case "1d":
		from = now.AddDate(0, 0, -1)
	case "7d":
		from = now.AddDate(0, 0, -7)
	case "1m":
		from = now.AddDate(0, -1, 0)
	case "3m":
		from = now.AddDate(0, -3, 0)
	case "12m":
		from = now.AddDate(0, -12, 0)
	default:
		from = now.AddDate(0, 0, -7)
	}

	summary, err := h.analyticsService.Summary(actorFromCtx(c), &from, &now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

// GetLowStock lists active variants at or below their minimum stock level
// GET /api/v1/analytics/low-stock
func (h *AnalyticsHandler) GetLowStock(c *fiber.Ctx) error {
	variants, err := h.analyticsService.LowStock(actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(variants)
}
