package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
)

type ReportService interface {
	SalesReport(actor Actor, from, to *time.Time) (*bytes.Buffer, error)
}

type reportService struct {
	historyRepo repository.HistoryRepository
}

func NewReportService(historyRepo repository.HistoryRepository) ReportService {
	return &reportService{historyRepo: historyRepo}
}

// SalesReport renders the sell entries of the ledger as an Excel workbook.
// The export reads a snapshot and never takes part in the write path.
func (s *reportService) SalesReport(actor Actor, from, to *time.Time) (*bytes.Buffer, error) {
	entries, err := s.historyRepo.List(actor.OrganizationID, repository.HistoryFilter{
		Action: model.ActionSell,
		From:   from,
		To:     to,
		Limit:  10000,
	})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, apperr.NotFound("sales to export", actor.OrganizationID)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sales"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []string{"Date", "Product", "SKU", "Quantity", "Buyer", "Payment Status", "Seller", "Reviewed By"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, entry := range entries {
		values := []any{
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			textOr(productName(&entry), "N/A"),
			textOr(variantSKU(&entry), "N/A"),
			entry.QuantityChange,
			derefOr(entry.BuyerName, "N/A"),
			paymentText(entry.PaymentStatus),
			userText(entry.Requester),
			userText(entry.Reviewer),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func productName(entry *model.ChangeHistory) string {
	if entry.Product != nil {
		return entry.Product.Name
	}
	return ""
}

func variantSKU(entry *model.ChangeHistory) string {
	if entry.Variant != nil {
		return entry.Variant.SKU
	}
	return ""
}

func textOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func paymentText(status *model.PaymentStatus) string {
	if status == nil {
		return "N/A"
	}
	return string(*status)
}

func userText(u *model.User) string {
	if u == nil {
		return "N/A"
	}
	return u.Username
}
