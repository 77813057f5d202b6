package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry grouping one or more sellable variants
// (e.g. a T-Shirt with size/color combinations).
type Product struct {
	BaseModel
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_products_org" json:"organization_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Description    string    `gorm:"type:text" json:"description,omitempty"`
	Category       string    `gorm:"type:varchar(100);index" json:"category,omitempty"`
	IsArchived     bool      `gorm:"not null;default:false" json:"is_archived"`

	Variants []Variant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

// Variant is the sellable unit: it carries the SKU, pricing and the quantity
// on hand. Quantity never goes below zero; every mutation runs through the
// guarded update in the repository.
type Variant struct {
	BaseModel
	ProductID      uuid.UUID `gorm:"type:uuid;not null;index:idx_variants_product" json:"product_id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_variants_org_sku,priority:1;uniqueIndex:idx_variants_org_barcode,priority:1" json:"organization_id"`
	SKU            string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_variants_org_sku,priority:2" json:"sku" validate:"required"`
	// NULL barcodes stay permitted; the unique index only constrains real values.
	Barcode *string `gorm:"type:varchar(100);uniqueIndex:idx_variants_org_barcode,priority:2" json:"barcode,omitempty"`

	// Attribute combination as JSON, e.g. {"Size":"L","Color":"Red"}
	Attributes string `gorm:"type:text" json:"attributes,omitempty"`

	PurchasePrice decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`

	Quantity      int    `gorm:"not null;default:0" json:"quantity"`
	MinStockLevel int    `gorm:"not null;default:0" json:"min_stock_level"`
	UnitType      string `gorm:"type:varchar(20);not null;default:pcs" json:"unit_type"`

	IsActive bool `gorm:"not null;default:true" json:"is_active"`
}
