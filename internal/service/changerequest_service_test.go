package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

func TestApproveAddStock(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-ADD", 3, "10.00", "5.00")

	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:         model.ActionAdd,
		VariantID:      &variant.ID,
		QuantityChange: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, req.Status)
	assert.Equal(t, 3, env.variantQuantity(t, variant.ID), "submit alone must not move stock")

	entry, err := env.requestService.Approve(env.owner, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, env.variantQuantity(t, variant.ID))
	assert.Equal(t, model.ActionAdd, entry.Action)
	assert.Equal(t, model.StatusApproved, entry.Status)
	assert.Equal(t, 7, entry.QuantityChange)
	require.NotNil(t, entry.RequesterID)
	assert.Equal(t, env.cashier.UserID, *entry.RequesterID)
	require.NotNil(t, entry.ReviewerID)
	assert.Equal(t, env.owner.UserID, *entry.ReviewerID)

	// The request is consumed on approval.
	pending, err := env.requestService.ListPending(env.owner)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestApproveTwiceFails(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-TWICE", 5, "10.00", "5.00")

	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:         model.ActionAdd,
		VariantID:      &variant.ID,
		QuantityChange: 1,
	})
	require.NoError(t, err)

	_, err = env.requestService.Approve(env.owner, req.ID)
	require.NoError(t, err)

	_, err = env.requestService.Approve(env.owner, req.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, 6, env.variantQuantity(t, variant.ID), "effect applied exactly once")
}

func TestApproveSellInsufficientStockKeepsRequestPending(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-LOW", 2, "10.00", "5.00")

	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:         model.ActionSell,
		VariantID:      &variant.ID,
		QuantityChange: 5,
	})
	require.NoError(t, err)

	_, err = env.requestService.Approve(env.owner, req.ID)
	assert.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// Nothing applied, no history, and the request is retryable.
	assert.Equal(t, 2, env.variantQuantity(t, variant.ID))
	var historyCount int64
	require.NoError(t, env.db.Model(&model.ChangeHistory{}).Count(&historyCount).Error)
	assert.Zero(t, historyCount)

	pending, err := env.requestService.ListPending(env.owner)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, req.ID, pending[0].ID)

	// Restock, then the same request approves cleanly.
	require.NoError(t, env.productRepo.AdjustQuantity(nil, env.org.ID, variant.ID, 10))
	entry, err := env.requestService.Approve(env.owner, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, env.variantQuantity(t, variant.ID))
	assert.Equal(t, 5, entry.QuantityChange)
}

func TestSubmitResolvesVariantBySKU(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-FIND", 4, "10.00", "5.00")

	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:         model.ActionSell,
		SKU:            strPtr("SKU-FIND"),
		QuantityChange: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, req.VariantID)
	assert.Equal(t, variant.ID, *req.VariantID)

	_, err = env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:         model.ActionSell,
		SKU:            strPtr("NO-SUCH-SKU"),
		QuantityChange: 1,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestApproveCreateItem(t *testing.T) {
	env := newTestEnv(t)

	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:       model.ActionCreate,
		NewName:      strPtr("New Gadget"),
		NewSKU:       strPtr("SKU-NEW"),
		NewSalePrice: decPtr(t, "25.00"),
		NewQuantity:  intPtr(12),
	})
	require.NoError(t, err)

	entry, err := env.requestService.Approve(env.owner, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, entry.QuantityChange, "history carries the proposed initial quantity")

	variant, err := env.productRepo.FindVariantBySKU(nil, env.org.ID, "SKU-NEW")
	require.NoError(t, err)
	assert.Equal(t, 12, variant.Quantity)
	assert.True(t, variant.IsActive)

	product, err := env.productRepo.FindProductByID(nil, env.org.ID, variant.ProductID)
	require.NoError(t, err)
	assert.Equal(t, "New Gadget", product.Name)
}

func TestCreateItemRejectsDuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	env.createVariant(t, "SKU-TAKEN", 1, "10.00", "5.00")

	_, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:       model.ActionCreate,
		NewName:      strPtr("Duplicate"),
		NewSKU:       strPtr("SKU-FREE"),
		NewSalePrice: decPtr(t, "5.00"),
	})
	require.NoError(t, err)

	// A second pending create for the same SKU is refused at submission.
	_, err = env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:       model.ActionCreate,
		NewName:      strPtr("Duplicate Again"),
		NewSKU:       strPtr("SKU-FREE"),
		NewSalePrice: decPtr(t, "5.00"),
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// A create colliding with an existing variant fails at approval.
	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:       model.ActionCreate,
		NewName:      strPtr("Collision"),
		NewSKU:       strPtr("SKU-TAKEN"),
		NewSalePrice: decPtr(t, "5.00"),
	})
	require.NoError(t, err)
	_, err = env.requestService.Approve(env.owner, req.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestApproveUpdateItem(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-UPD", 5, "10.00", "5.00")

	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:       model.ActionUpdate,
		VariantID:    &variant.ID,
		NewSalePrice: decPtr(t, "14.50"),
		NewSKU:       strPtr("SKU-UPD-2"),
	})
	require.NoError(t, err)

	_, err = env.requestService.Approve(env.owner, req.ID)
	require.NoError(t, err)

	updated, err := env.productRepo.FindVariantByID(nil, env.org.ID, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, "SKU-UPD-2", updated.SKU)
	assert.True(t, updated.SalePrice.Equal(*decPtr(t, "14.50")))
	assert.Equal(t, 5, updated.Quantity, "update never touches stock")
}

func TestApproveArchiveRestoreDelete(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-LIFE", 5, "10.00", "5.00")
	productID := variant.ProductID

	submitAndApprove := func(action model.ChangeRequestAction) *model.ChangeHistory {
		req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
			Action:    action,
			ProductID: &productID,
		})
		require.NoError(t, err)
		entry, err := env.requestService.Approve(env.owner, req.ID)
		require.NoError(t, err)
		return entry
	}

	submitAndApprove(model.ActionArchive)
	product, err := env.productRepo.FindProductByID(nil, env.org.ID, productID)
	require.NoError(t, err)
	assert.True(t, product.IsArchived)

	submitAndApprove(model.ActionRestore)
	product, err = env.productRepo.FindProductByID(nil, env.org.ID, productID)
	require.NoError(t, err)
	assert.False(t, product.IsArchived)

	entry := submitAndApprove(model.ActionDelete)
	_, err = env.productRepo.FindProductByID(nil, env.org.ID, productID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// All three ledger rows survive the deletion with product refs nulled.
	var entries []model.ChangeHistory
	require.NoError(t, env.db.Order("created_at ASC").Find(&entries).Error)
	require.Len(t, entries, 3)
	for _, e := range entries {
		assert.Nil(t, e.ProductID)
	}
	assert.Equal(t, model.ActionDelete, entry.Action)
}

func TestRejectWritesRejectedEntryWithoutApplying(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-REJ", 5, "10.00", "5.00")

	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:         model.ActionSell,
		VariantID:      &variant.ID,
		QuantityChange: 3,
	})
	require.NoError(t, err)

	entry, err := env.requestService.Reject(env.owner, req.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRejected, entry.Status)
	assert.Equal(t, 3, entry.QuantityChange)
	assert.Equal(t, 5, env.variantQuantity(t, variant.ID), "reject never touches stock")

	pending, err := env.requestService.ListPending(env.owner)
	require.NoError(t, err)
	assert.Empty(t, pending)

	// Rejected create records the proposed quantity.
	createReq, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:       model.ActionCreate,
		NewName:      strPtr("Never Born"),
		NewSKU:       strPtr("SKU-NB"),
		NewSalePrice: decPtr(t, "1.00"),
		NewQuantity:  intPtr(9),
	})
	require.NoError(t, err)
	createEntry, err := env.requestService.Reject(env.owner, createReq.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, createEntry.QuantityChange)
	_, err = env.productRepo.FindVariantBySKU(nil, env.org.ID, "SKU-NB")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestApproveMarkPaid(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-MP", 5, "10.00", "5.00")

	unpaid := model.PaymentUnpaid
	_, err := env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		PaymentStatus: &unpaid,
		Items:         []SaleLineInput{{VariantID: variant.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	var before int64
	require.NoError(t, env.db.Model(&model.ChangeHistory{}).Count(&before).Error)

	// No explicit history link: the newest unpaid sell row for the variant
	// is corrected.
	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:    model.ActionMarkPaid,
		VariantID: &variant.ID,
	})
	require.NoError(t, err)

	entry, err := env.requestService.Approve(env.owner, req.ID)
	require.NoError(t, err)
	require.NotNil(t, entry.PaymentStatus)
	assert.Equal(t, model.PaymentPaid, *entry.PaymentStatus)

	var after int64
	require.NoError(t, env.db.Model(&model.ChangeHistory{}).Count(&after).Error)
	assert.Equal(t, before, after, "mark_paid corrects in place, no new ledger row")
	assert.Equal(t, 3, env.variantQuantity(t, variant.ID), "mark_paid never touches stock")

	// A second correction finds nothing unpaid.
	req2, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:    model.ActionMarkPaid,
		VariantID: &variant.ID,
	})
	require.NoError(t, err)
	_, err = env.requestService.Approve(env.owner, req2.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRequestsAreOrganizationScoped(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-ORG", 5, "10.00", "5.00")

	req, err := env.requestService.Submit(env.cashier, &SubmitChangeRequestInput{
		Action:         model.ActionAdd,
		VariantID:      &variant.ID,
		QuantityChange: 1,
	})
	require.NoError(t, err)

	stranger := Actor{
		UserID:         uuid.New(),
		Username:       "stranger",
		OrganizationID: uuid.New(),
		Role:           model.RoleOwner,
	}
	_, err = env.requestService.Approve(stranger, req.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = env.requestService.Submit(stranger, &SubmitChangeRequestInput{
		Action:         model.ActionAdd,
		VariantID:      &variant.ID,
		QuantityChange: 1,
	})
	require.NoError(t, err, "submit stores the id it was given")
	assert.Equal(t, 5, env.variantQuantity(t, variant.ID))
}

func TestSubmitRejectsMalformedProposals(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-BAD", 5, "10.00", "5.00")

	cases := []struct {
		name  string
		input SubmitChangeRequestInput
	}{
		{"sell without target", SubmitChangeRequestInput{Action: model.ActionSell, QuantityChange: 1}},
		{"add with zero quantity", SubmitChangeRequestInput{Action: model.ActionAdd, VariantID: &variant.ID}},
		{"add with negative quantity", SubmitChangeRequestInput{Action: model.ActionAdd, VariantID: &variant.ID, QuantityChange: -2}},
		{"create without sale price", SubmitChangeRequestInput{Action: model.ActionCreate, NewName: strPtr("x"), NewSKU: strPtr("SKU-X")}},
		{"update proposing nothing", SubmitChangeRequestInput{Action: model.ActionUpdate, VariantID: &variant.ID}},
		{"unknown action", SubmitChangeRequestInput{Action: "fold"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := tc.input
			_, err := env.requestService.Submit(env.cashier, &input)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}

	pending, err := env.requestService.ListPending(env.owner)
	require.NoError(t, err)
	assert.Empty(t, pending, "malformed proposals never reach the queue")
}
