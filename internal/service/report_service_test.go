package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

func TestSalesReportExport(t *testing.T) {
	env := newTestEnv(t)
	reportService := NewReportService(env.historyRepo)

	_, err := reportService.SalesReport(env.owner, nil, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound, "nothing to export")

	variant := env.createVariant(t, "SKU-XLS", 10, "10.00", "5.00")
	buyer := "Alice"
	_, err = env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		BuyerName:     &buyer,
		Items:         []SaleLineInput{{VariantID: variant.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	buf, err := reportService.SalesReport(env.owner, nil, nil)
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sales")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one sale")
	assert.Equal(t, "Date", rows[0][0])
	assert.Contains(t, rows[1], "SKU-XLS")
	assert.Contains(t, rows[1], "3")
	assert.Contains(t, rows[1], "Alice")
}
