package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod for sales
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentMobile       PaymentMethod = "mobile"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
)

// Sale is a completed multi-line point-of-sale transaction. Monetary fields
// obey total_amount = subtotal + tax - discount and
// profit = sum((price_at_sale - purchase_price_at_sale) * quantity) over the
// items, computed from prices frozen at sale time.
type Sale struct {
	BaseModel
	OrganizationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_sales_org" json:"organization_id"`
	CashierID      *uuid.UUID `gorm:"type:uuid" json:"cashier_id,omitempty"`
	Cashier        *User      `gorm:"foreignKey:CashierID;constraint:OnDelete:SET NULL" json:"cashier,omitempty"`
	CustomerID     *uuid.UUID `gorm:"type:uuid" json:"customer_id,omitempty"`
	Customer       *Customer  `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`

	Subtotal    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tax"`
	Discount    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Profit      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"profit"`

	PaymentMethod   PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentProofURL *string       `gorm:"type:varchar(500)" json:"payment_proof_url,omitempty"`

	Notes  *string `gorm:"type:text" json:"notes,omitempty"`
	Synced bool    `gorm:"not null;default:true" json:"synced"`

	// Sale exclusively owns its items
	Items []SaleItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// SaleItem is one line of a sale. Prices are frozen copies taken at sale
// time, immune to later catalog changes.
type SaleItem struct {
	BaseModel
	SaleID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_sale_items_sale" json:"sale_id"`
	VariantID *uuid.UUID `gorm:"type:uuid;index" json:"variant_id,omitempty"`
	Variant   *Variant   `gorm:"foreignKey:VariantID;constraint:OnDelete:SET NULL" json:"variant,omitempty"`

	Quantity            int             `gorm:"not null" json:"quantity"`
	PriceAtSale         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_sale"`
	PurchasePriceAtSale decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"purchase_price_at_sale"`
}
