package service

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

func TestCreateSaleTotalsAndLedger(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-123", 10, "100.00", "60.00")

	tax, _ := decimal.NewFromString("5")
	sale, err := env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		Tax:           tax,
		Discount:      decimal.Zero,
		Items: []SaleLineInput{
			{VariantID: variant.ID, Quantity: 2},
		},
	})
	require.NoError(t, err)

	assert.True(t, sale.Subtotal.Equal(decimal.NewFromInt(200)), "subtotal = %s", sale.Subtotal)
	assert.True(t, sale.TotalAmount.Equal(decimal.NewFromInt(205)), "total = %s", sale.TotalAmount)
	assert.True(t, sale.Profit.Equal(decimal.NewFromInt(80)), "profit = %s", sale.Profit)
	assert.Equal(t, 8, env.variantQuantity(t, variant.ID))

	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Items[0].PriceAtSale.Equal(decimal.NewFromInt(100)))
	assert.True(t, sale.Items[0].PurchasePriceAtSale.Equal(decimal.NewFromInt(60)))

	var entries []model.ChangeHistory
	require.NoError(t, env.db.Where("variant_id = ?", variant.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ActionSell, entries[0].Action)
	assert.Equal(t, model.StatusApproved, entries[0].Status)
	assert.Equal(t, 2, entries[0].QuantityChange)
}

func TestCreateSaleSumsDuplicateLines(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-DUP", 10, "10.00", "5.00")

	// 6 + 6 exceeds stock even though each line alone would fit.
	_, err := env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		Items: []SaleLineInput{
			{VariantID: variant.ID, Quantity: 6},
			{VariantID: variant.ID, Quantity: 6},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Equal(t, 10, env.variantQuantity(t, variant.ID))

	// 4 + 4 fits and merges into one checked demand.
	sale, err := env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		Items: []SaleLineInput{
			{VariantID: variant.ID, Quantity: 4},
			{VariantID: variant.ID, Quantity: 4},
		},
	})
	require.NoError(t, err)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, 8, sale.Items[0].Quantity)
	assert.Equal(t, 2, env.variantQuantity(t, variant.ID))
}

func TestCreateSaleIsAtomicAcrossLines(t *testing.T) {
	env := newTestEnv(t)
	ok := env.createVariant(t, "SKU-OK", 10, "10.00", "5.00")
	short := env.createVariant(t, "SKU-SHORT", 1, "10.00", "5.00")

	_, err := env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		Items: []SaleLineInput{
			{VariantID: ok.ID, Quantity: 3},
			{VariantID: short.ID, Quantity: 5},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	var stockErr *apperr.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "SKU-SHORT", stockErr.SKU)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	// Nothing moved, nothing recorded.
	assert.Equal(t, 10, env.variantQuantity(t, ok.ID))
	assert.Equal(t, 1, env.variantQuantity(t, short.ID))

	var saleCount, historyCount int64
	require.NoError(t, env.db.Model(&model.Sale{}).Count(&saleCount).Error)
	require.NoError(t, env.db.Model(&model.ChangeHistory{}).Count(&historyCount).Error)
	assert.Zero(t, saleCount)
	assert.Zero(t, historyCount)
}

func TestCreateSaleRejectsUnknownVariant(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		Items:         []SaleLineInput{{VariantID: uuid.New(), Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateSaleRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-VAL", 10, "10.00", "5.00")

	_, err := env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		Items:         []SaleLineInput{},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation, "empty item list")

	negative, _ := decimal.NewFromString("-1")
	_, err = env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		Tax:           negative,
		Items:         []SaleLineInput{{VariantID: variant.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation, "negative tax")

	assert.Equal(t, 10, env.variantQuantity(t, variant.ID))
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-RACE", 10, "10.00", "5.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.saleService.CreateSale(env.cashier, &CreateSaleInput{
				PaymentMethod: model.PaymentCash,
				Items:         []SaleLineInput{{VariantID: variant.ID, Quantity: 6}},
			})
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, apperr.ErrInsufficientStock)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of the two sales must fail")
	assert.Equal(t, 4, env.variantQuantity(t, variant.ID))
}

func TestSaleDefaultsToPaid(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-PAY", 5, "10.00", "5.00")

	_, err := env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		Items:         []SaleLineInput{{VariantID: variant.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	var entry model.ChangeHistory
	require.NoError(t, env.db.First(&entry, "variant_id = ?", variant.ID).Error)
	require.NotNil(t, entry.PaymentStatus)
	assert.Equal(t, model.PaymentPaid, *entry.PaymentStatus)

	unpaid := model.PaymentUnpaid
	buyer := "Walk-in"
	_, err = env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		PaymentStatus: &unpaid,
		BuyerName:     &buyer,
		Items:         []SaleLineInput{{VariantID: variant.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	unpaidEntries, err := env.historyService.ListUnpaid(env.owner)
	require.NoError(t, err)
	require.Len(t, unpaidEntries, 1)
	require.NotNil(t, unpaidEntries[0].BuyerName)
	assert.Equal(t, "Walk-in", *unpaidEntries[0].BuyerName)
}
