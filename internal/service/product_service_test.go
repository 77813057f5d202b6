package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	env := newTestEnv(t)
	env.createVariant(t, "SKU-A", 1, "10.00", "5.00")

	_, err := env.productService.CreateProduct(env.owner, &CreateProductInput{
		Name: "Clone",
		Variants: []VariantInput{{
			SKU:       "SKU-A",
			SalePrice: *decPtr(t, "10.00"),
		}},
	})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDuplicateBarcodeBlockedAtDatabase(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-BC1", 1, "10.00", "5.00")
	variant.Barcode = strPtr("4006381333931")
	require.NoError(t, env.productRepo.UpdateVariant(nil, variant))

	// Insert through the repository, bypassing the service pre-check, so
	// only the unique index can stop it.
	dup := &model.Variant{
		ProductID:      variant.ProductID,
		OrganizationID: env.org.ID,
		SKU:            "SKU-BC2",
		Barcode:        strPtr("4006381333931"),
		SalePrice:      *decPtr(t, "10.00"),
		UnitType:       "pcs",
		IsActive:       true,
	}
	err := env.productRepo.CreateVariant(nil, dup)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Variants without a barcode are unconstrained.
	noBarcode := &model.Variant{
		ProductID:      variant.ProductID,
		OrganizationID: env.org.ID,
		SKU:            "SKU-BC3",
		SalePrice:      *decPtr(t, "10.00"),
		UnitType:       "pcs",
		IsActive:       true,
	}
	require.NoError(t, env.productRepo.CreateVariant(nil, noBarcode))
}

func TestCreateProductRejectsNegativePrices(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.productService.CreateProduct(env.owner, &CreateProductInput{
		Name: "Bad",
		Variants: []VariantInput{{
			SKU:       "SKU-NEG",
			SalePrice: *decPtr(t, "-1.00"),
		}},
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestArchiveIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-ARC", 1, "10.00", "5.00")

	require.NoError(t, env.productService.ArchiveProduct(env.owner, variant.ProductID))
	require.NoError(t, env.productService.ArchiveProduct(env.owner, variant.ProductID), "second archive is a no-op")

	product, err := env.productService.GetProduct(env.owner, variant.ProductID)
	require.NoError(t, err)
	assert.True(t, product.IsArchived)

	require.NoError(t, env.productService.UnarchiveProduct(env.owner, variant.ProductID))
	require.NoError(t, env.productService.UnarchiveProduct(env.owner, variant.ProductID))

	product, err = env.productService.GetProduct(env.owner, variant.ProductID)
	require.NoError(t, err)
	assert.False(t, product.IsArchived)
}

func TestArchivedProductsHiddenByDefault(t *testing.T) {
	env := newTestEnv(t)
	visible := env.createVariant(t, "SKU-VIS", 1, "10.00", "5.00")
	hidden := env.createVariant(t, "SKU-HID", 1, "10.00", "5.00")
	require.NoError(t, env.productService.ArchiveProduct(env.owner, hidden.ProductID))

	products, err := env.productService.ListProducts(env.owner, false)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, visible.ProductID, products[0].ID)

	all, err := env.productService.ListProducts(env.owner, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeleteProductRepointsLedger(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-DEL", 10, "10.00", "5.00")

	sale, err := env.saleService.CreateSale(env.cashier, &CreateSaleInput{
		PaymentMethod: model.PaymentCash,
		Items:         []SaleLineInput{{VariantID: variant.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	require.NoError(t, env.productService.DeleteProduct(env.owner, variant.ProductID))

	_, err = env.productService.GetProduct(env.owner, variant.ProductID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// Ledger and sale rows survive with the variant reference nulled.
	var entry model.ChangeHistory
	require.NoError(t, env.db.First(&entry, "action = ?", model.ActionSell).Error)
	assert.Nil(t, entry.VariantID)
	assert.Nil(t, entry.ProductID)
	assert.Equal(t, 2, entry.QuantityChange)

	var item model.SaleItem
	require.NoError(t, env.db.First(&item, "sale_id = ?", sale.ID).Error)
	assert.Nil(t, item.VariantID)
	assert.True(t, item.PriceAtSale.Equal(*decPtr(t, "10.00")), "frozen price survives the delete")
}

func TestProductLookupIsOrganizationScoped(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-SCOPE", 1, "10.00", "5.00")

	otherOrg := &model.Organization{Name: "Other Store"}
	require.NoError(t, env.db.Create(otherOrg).Error)
	stranger := Actor{OrganizationID: otherOrg.ID, Username: "other", Role: model.RoleOwner}

	_, err := env.productService.GetProduct(stranger, variant.ProductID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = env.productService.DeleteProduct(stranger, variant.ProductID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	products, err := env.productService.ListProducts(stranger, true)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestAddVariantToExistingProduct(t *testing.T) {
	env := newTestEnv(t)
	variant := env.createVariant(t, "SKU-BASE", 1, "10.00", "5.00")

	added, err := env.productService.AddVariant(env.owner, variant.ProductID, &VariantInput{
		SKU:       "SKU-BASE-XL",
		SalePrice: *decPtr(t, "12.00"),
		Quantity:  3,
	})
	require.NoError(t, err)
	assert.Equal(t, variant.ProductID, added.ProductID)
	assert.Equal(t, "pcs", added.UnitType, "unit type defaults when omitted")

	product, err := env.productService.GetProduct(env.owner, variant.ProductID)
	require.NoError(t, err)
	assert.Len(t, product.Variants, 2)
}
