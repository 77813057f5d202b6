package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

// SalesSummary aggregates revenue and profit over a period
type SalesSummary struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalProfit  decimal.Decimal `json:"total_profit"`
	SalesCount   int64           `json:"total_sales_count"`
}

// BestSeller is one row of the best-selling-variants ranking
type BestSeller struct {
	VariantID    uuid.UUID       `json:"variant_id"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"total_quantity_sold"`
	Revenue      decimal.Decimal `json:"total_revenue"`
}

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll(orgID uuid.UUID, limit, offset int) ([]model.Sale, error)
	FindByID(orgID, id uuid.UUID) (*model.Sale, error)
	Summary(orgID uuid.UUID, from, to *time.Time) (*SalesSummary, error)
	BestSellers(orgID uuid.UUID, from, to *time.Time, limit int) ([]BestSeller, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Create(sale).Error
}

func (r *saleRepo) FindAll(orgID uuid.UUID, limit, offset int) ([]model.Sale, error) {
	var sales []model.Sale
	q := r.db.Preload("Items").Preload("Cashier").
		Where("organization_id = ?", orgID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	err := q.Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(orgID, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").Preload("Items.Variant").
		Preload("Cashier").Preload("Customer").
		First(&sale, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("sale", id)
	}
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepo) Summary(orgID uuid.UUID, from, to *time.Time) (*SalesSummary, error) {
	var row struct {
		TotalRevenue decimal.Decimal
		TotalProfit  decimal.Decimal
		SalesCount   int64
	}
	q := r.db.Model(&model.Sale{}).
		Select("COALESCE(SUM(total_amount), 0) as total_revenue, COALESCE(SUM(profit), 0) as total_profit, COUNT(*) as sales_count").
		Where("organization_id = ?", orgID)
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}
	if err := q.Scan(&row).Error; err != nil {
		return nil, err
	}
	return &SalesSummary{
		TotalRevenue: row.TotalRevenue,
		TotalProfit:  row.TotalProfit,
		SalesCount:   row.SalesCount,
	}, nil
}

func (r *saleRepo) BestSellers(orgID uuid.UUID, from, to *time.Time, limit int) ([]BestSeller, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []BestSeller
	q := r.db.Model(&model.SaleItem{}).
		Select(`variants.id as variant_id,
			variants.sku as sku,
			products.name as product_name,
			COALESCE(SUM(sale_items.quantity), 0) as quantity_sold,
			COALESCE(SUM(sale_items.quantity * sale_items.price_at_sale), 0) as revenue`).
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN variants ON variants.id = sale_items.variant_id").
		Joins("JOIN products ON products.id = variants.product_id").
		Where("sales.organization_id = ?", orgID)
	if from != nil {
		q = q.Where("sales.created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("sales.created_at <= ?", *to)
	}
	err := q.Group("variants.id, variants.sku, products.name").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
