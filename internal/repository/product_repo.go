package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

type ProductRepository interface {
	CreateProduct(tx *gorm.DB, product *model.Product) error
	FindProductByID(tx *gorm.DB, orgID, id uuid.UUID) (*model.Product, error)
	FindProducts(orgID uuid.UUID, includeArchived bool) ([]model.Product, error)
	UpdateProduct(tx *gorm.DB, product *model.Product) error
	SetArchived(tx *gorm.DB, orgID, id uuid.UUID, archived bool) error
	DeleteProduct(tx *gorm.DB, orgID, id uuid.UUID) error

	CreateVariant(tx *gorm.DB, variant *model.Variant) error
	FindVariantByID(tx *gorm.DB, orgID, id uuid.UUID) (*model.Variant, error)
	FindVariantBySKU(tx *gorm.DB, orgID uuid.UUID, sku string) (*model.Variant, error)
	FindVariantByBarcode(tx *gorm.DB, orgID uuid.UUID, barcode string) (*model.Variant, error)
	UpdateVariant(tx *gorm.DB, variant *model.Variant) error
	AdjustQuantity(tx *gorm.DB, orgID, variantID uuid.UUID, delta int) error
	FindLowStock(orgID uuid.UUID) ([]model.Variant, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) orDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *productRepo) CreateProduct(tx *gorm.DB, product *model.Product) error {
	return r.orDB(tx).Create(product).Error
}

func (r *productRepo) FindProductByID(tx *gorm.DB, orgID, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.orDB(tx).Preload("Variants").
		First(&product, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("product", id)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) FindProducts(orgID uuid.UUID, includeArchived bool) ([]model.Product, error) {
	var products []model.Product
	q := r.db.Preload("Variants").Where("organization_id = ?", orgID)
	if !includeArchived {
		q = q.Where("is_archived = ?", false)
	}
	err := q.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) UpdateProduct(tx *gorm.DB, product *model.Product) error {
	return r.orDB(tx).Save(product).Error
}

// SetArchived is an idempotent flip of the archived flag; no other field is
// touched.
func (r *productRepo) SetArchived(tx *gorm.DB, orgID, id uuid.UUID, archived bool) error {
	res := r.orDB(tx).Model(&model.Product{}).
		Where("id = ? AND organization_id = ?", id, orgID).
		UpdateColumn("is_archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Already in the desired state still matches the WHERE, so zero rows
		// means the product does not exist in this scope.
		var count int64
		r.orDB(tx).Model(&model.Product{}).
			Where("id = ? AND organization_id = ?", id, orgID).Count(&count)
		if count == 0 {
			return apperr.NotFound("product", id)
		}
	}
	return nil
}

// DeleteProduct removes the product and its variants. Ledger and sale-item
// rows that reference them are re-pointed to null first, inside the caller's
// transaction, so no row is ever left dangling mid-operation.
func (r *productRepo) DeleteProduct(tx *gorm.DB, orgID, id uuid.UUID) error {
	db := r.orDB(tx)

	var product model.Product
	if err := db.First(&product, "id = ? AND organization_id = ?", id, orgID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product", id)
		}
		return err
	}

	var variantIDs []uuid.UUID
	if err := db.Model(&model.Variant{}).Where("product_id = ?", id).
		Pluck("id", &variantIDs).Error; err != nil {
		return err
	}

	if err := db.Model(&model.ChangeHistory{}).Where("product_id = ?", id).
		UpdateColumn("product_id", nil).Error; err != nil {
		return err
	}
	if len(variantIDs) > 0 {
		if err := db.Model(&model.ChangeHistory{}).Where("variant_id IN ?", variantIDs).
			UpdateColumn("variant_id", nil).Error; err != nil {
			return err
		}
		if err := db.Model(&model.SaleItem{}).Where("variant_id IN ?", variantIDs).
			UpdateColumn("variant_id", nil).Error; err != nil {
			return err
		}
		if err := db.Model(&model.ChangeRequest{}).Where("variant_id IN ?", variantIDs).
			UpdateColumn("variant_id", nil).Error; err != nil {
			return err
		}
	}
	if err := db.Model(&model.ChangeRequest{}).Where("product_id = ?", id).
		UpdateColumn("product_id", nil).Error; err != nil {
		return err
	}

	if err := db.Where("product_id = ?", id).Delete(&model.Variant{}).Error; err != nil {
		return err
	}
	return db.Delete(&product).Error
}

// CreateVariant inserts a variant. The unique indexes on (org, sku) and
// (org, barcode) catch races the service-level pre-checks cannot.
func (r *productRepo) CreateVariant(tx *gorm.DB, variant *model.Variant) error {
	err := r.orDB(tx).Create(variant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("SKU or barcode", variant.SKU)
	}
	return err
}

func (r *productRepo) FindVariantByID(tx *gorm.DB, orgID, id uuid.UUID) (*model.Variant, error) {
	var variant model.Variant
	err := r.orDB(tx).First(&variant, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("variant", id)
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepo) FindVariantBySKU(tx *gorm.DB, orgID uuid.UUID, sku string) (*model.Variant, error) {
	var variant model.Variant
	err := r.orDB(tx).First(&variant, "organization_id = ? AND sku = ?", orgID, sku).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("variant", sku)
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepo) FindVariantByBarcode(tx *gorm.DB, orgID uuid.UUID, barcode string) (*model.Variant, error) {
	var variant model.Variant
	err := r.orDB(tx).First(&variant, "organization_id = ? AND barcode = ?", orgID, barcode).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("variant", barcode)
	}
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepo) UpdateVariant(tx *gorm.DB, variant *model.Variant) error {
	err := r.orDB(tx).Save(variant).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("SKU or barcode", variant.SKU)
	}
	return err
}

// AdjustQuantity applies quantity += delta as a single guarded UPDATE. The
// floor-at-zero check and the write are one atomic statement, so two
// concurrent decrements can never both pass the check and drive the quantity
// negative.
func (r *productRepo) AdjustQuantity(tx *gorm.DB, orgID, variantID uuid.UUID, delta int) error {
	db := r.orDB(tx)
	res := db.Model(&model.Variant{}).
		Where("id = ? AND organization_id = ?", variantID, orgID).
		Where("quantity + ? >= 0", delta).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var variant model.Variant
		err := db.First(&variant, "id = ? AND organization_id = ?", variantID, orgID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("variant", variantID)
		}
		if err != nil {
			return err
		}
		return apperr.InsufficientStock(variant.SKU, variant.Quantity, -delta)
	}
	return nil
}

func (r *productRepo) FindLowStock(orgID uuid.UUID) ([]model.Variant, error) {
	var variants []model.Variant
	err := r.db.
		Where("organization_id = ? AND quantity <= min_stock_level AND is_active = ?", orgID, true).
		Order("quantity ASC").
		Find(&variants).Error
	return variants, err
}
