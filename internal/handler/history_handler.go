package handler

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/service"
)

type HistoryHandler struct {
	historyService service.HistoryService
	reportService  service.ReportService
}

func NewHistoryHandler(historyService service.HistoryService, reportService service.ReportService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, reportService: reportService}
}

// GetHistory lists ledger entries, newest first
// GET /api/v1/history?action=sell&from=2026-01-01&to=2026-02-01
func (h *HistoryHandler) GetHistory(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}

	entries, err := h.historyService.List(actorFromCtx(c), service.HistoryListOptions{
		Action: model.ChangeRequestAction(c.Query("action")),
		From:   from,
		To:     to,
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// GetSalesHistory lists only the sell entries
// GET /api/v1/history/sales
func (h *HistoryHandler) GetSalesHistory(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}

	entries, err := h.historyService.ListSales(actorFromCtx(c), service.HistoryListOptions{
		From:   from,
		To:     to,
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// GetUnpaidSales lists sell entries still awaiting payment
// GET /api/v1/history/unpaid
func (h *HistoryHandler) GetUnpaidSales(c *fiber.Ctx) error {
	entries, err := h.historyService.ListUnpaid(actorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entries)
}

// MarkPaid flips one unpaid sell entry to paid
// PUT /api/v1/history/:id/mark-paid
func (h *HistoryHandler) MarkPaid(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	entry, err := h.historyService.MarkPaid(actorFromCtx(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Marked as paid", "data": entry})
}

// ExportSales streams the sales ledger as an Excel workbook
// GET /api/v1/history/sales/export
func (h *HistoryHandler) ExportSales(c *fiber.Ctx) error {
	from, to, err := parseDateRange(c)
	if err != nil {
		return respondError(c, err)
	}

	buf, err := h.reportService.SalesReport(actorFromCtx(c), from, to)
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("sales-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(buf.Bytes())
}
