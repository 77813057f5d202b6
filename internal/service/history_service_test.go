package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

func unpaidSale(t *testing.T, env *testEnv, variantID uuid.UUID, qty int) *model.ChangeHistory {
	t.Helper()
	unpaid := model.PaymentUnpaid
	_, err := env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		PaymentStatus: &unpaid,
		Items:         []SaleLineInput{{VariantID: variantID, Quantity: qty}},
	})
	require.NoError(t, err)

	var entry model.ChangeHistory
	require.NoError(t, env.db.
		Where("variant_id = ? AND payment_status = ?", variantID, model.PaymentUnpaid).
		Order("created_at DESC").First(&entry).Error)
	return &entry
}

func TestMarkPaidTransitionsExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-HIST", 10, "10.00", "5.00")
	entry := unpaidSale(t, env, variant.ID, 2)

	updated, err := env.historyService.MarkPaid(env.owner, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.PaymentStatus)
	assert.Equal(t, model.PaymentPaid, *updated.PaymentStatus)

	// Re-marking a paid entry is an invalid state, not a silent no-op.
	_, err = env.historyService.MarkPaid(env.owner, entry.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = env.historyService.MarkPaid(env.owner, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestMarkPaidIsOrganizationScoped(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-HSC", 10, "10.00", "5.00")
	entry := unpaidSale(t, env, variant.ID, 1)

	stranger := Actor{UserID: uuid.New(), Username: "other", OrganizationID: uuid.New(), Role: model.RoleOwner}
	_, err := env.historyService.MarkPaid(stranger, entry.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Still unpaid for the rightful owner.
	unpaid, err := env.historyService.ListUnpaid(env.owner)
	require.NoError(t, err)
	assert.Len(t, unpaid, 1)
}

func TestHistoryListingFilters(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-LIST", 20, "10.00", "5.00")

	// One add approval and two sales, one unpaid.
	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:         model.ActionAdd,
		VariantID:      &variant.ID,
		QuantityChange: 5,
	})
	require.NoError(t, err)
	_, err = env.requestService.Approve(env.owner, req.ID)
	require.NoError(t, err)

	_, err = env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		Items:         []SaleLineInput{{VariantID: variant.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	unpaidSale(t, env, variant.ID, 2)

	all, err := env.historyService.List(env.owner, HistoryListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	sales, err := env.historyService.ListSales(env.owner, HistoryListOptions{})
	require.NoError(t, err)
	assert.Len(t, sales, 2)
	for _, e := range sales {
		assert.Equal(t, model.ActionSell, e.Action)
	}

	unpaid, err := env.historyService.ListUnpaid(env.owner)
	require.NoError(t, err)
	require.Len(t, unpaid, 1)
	assert.Equal(t, 2, unpaid[0].QuantityChange)

	// Another organization sees an empty ledger.
	stranger := Actor{OrganizationID: uuid.New(), Username: "other", Role: model.RoleOwner}
	other, err := env.historyService.List(stranger, HistoryListOptions{})
	require.NoError(t, err)
	assert.Empty(t, other)
}
