package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ChangeRequestAction enumerates the mutually exclusive mutation kinds a
// change request can propose.
type ChangeRequestAction string

const (
	ActionAdd      ChangeRequestAction = "add"
	ActionSell     ChangeRequestAction = "sell"
	ActionCreate   ChangeRequestAction = "create"
	ActionUpdate   ChangeRequestAction = "update"
	ActionArchive  ChangeRequestAction = "archive"
	ActionRestore  ChangeRequestAction = "restore"
	ActionDelete   ChangeRequestAction = "delete"
	ActionMarkPaid ChangeRequestAction = "mark_paid"
)

// ChangeRequestStatus is effectively always pending in storage: approved and
// rejected requests are deleted in the same transaction that writes their
// history row.
type ChangeRequestStatus string

const (
	StatusPending  ChangeRequestStatus = "pending"
	StatusApproved ChangeRequestStatus = "approved"
	StatusRejected ChangeRequestStatus = "rejected"
)

// PaymentStatus tracks whether a sale recorded in history has been settled.
// The only permitted transition is unpaid -> paid.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// ChangeRequest is a proposed mutation awaiting review. Target and proposal
// fields are nullable because each action kind uses a different subset; the
// service decodes a row into a typed action before applying it.
type ChangeRequest struct {
	BaseModel
	OrganizationID uuid.UUID           `gorm:"type:uuid;not null;index:idx_change_requests_org" json:"organization_id"`
	Action         ChangeRequestAction `gorm:"type:varchar(20);not null" json:"action" validate:"required,oneof=add sell create update archive restore delete mark_paid"`
	Status         ChangeRequestStatus `gorm:"type:varchar(20);not null;default:pending" json:"status"`

	// Targets. References degrade to null if the referent is deleted.
	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Product   *Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"product,omitempty"`
	VariantID *uuid.UUID `gorm:"type:uuid;index" json:"variant_id,omitempty"`
	Variant   *Variant   `gorm:"foreignKey:VariantID;constraint:OnDelete:SET NULL" json:"variant,omitempty"`
	// Explicit history link for mark_paid corrections.
	HistoryID *uuid.UUID `gorm:"type:uuid" json:"history_id,omitempty"`

	QuantityChange int            `gorm:"not null;default:0" json:"quantity_change"`
	BuyerName      *string        `gorm:"type:varchar(255)" json:"buyer_name,omitempty"`
	PaymentStatus  *PaymentStatus `gorm:"type:varchar(10)" json:"payment_status,omitempty"`

	// Proposed values for create and update actions.
	NewName          *string          `gorm:"type:varchar(255)" json:"new_name,omitempty"`
	NewCategory      *string          `gorm:"type:varchar(100)" json:"new_category,omitempty"`
	NewSKU           *string          `gorm:"type:varchar(100)" json:"new_sku,omitempty"`
	NewBarcode       *string          `gorm:"type:varchar(100)" json:"new_barcode,omitempty"`
	NewSalePrice     *decimal.Decimal `gorm:"type:decimal(10,2)" json:"new_sale_price,omitempty"`
	NewPurchasePrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"new_purchase_price,omitempty"`
	NewQuantity      *int             `json:"new_quantity,omitempty"`
	NewMinStockLevel *int             `json:"new_min_stock_level,omitempty"`
	NewUnitType      *string          `gorm:"type:varchar(20)" json:"new_unit_type,omitempty"`

	RequesterID *uuid.UUID `gorm:"type:uuid" json:"requester_id,omitempty"`
	Requester   *User      `gorm:"foreignKey:RequesterID;constraint:OnDelete:SET NULL" json:"requester,omitempty"`
}
