package model

import "github.com/google/uuid"

// ChangeHistory is the append-only ledger of resolved change requests and
// point-of-sale decrements. Rows are never mutated after the append, with one
// narrow exception: the unpaid -> paid payment status transition. Entity and
// user references are weak; deleting the referent nulls them out instead of
// cascading, so the ledger survives any catalog lifecycle.
type ChangeHistory struct {
	BaseModel
	OrganizationID uuid.UUID           `gorm:"type:uuid;not null;index:idx_change_history_org" json:"organization_id"`
	Action         ChangeRequestAction `gorm:"type:varchar(20);not null;index" json:"action"`
	Status         ChangeRequestStatus `gorm:"type:varchar(20);not null" json:"status"`

	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Product   *Product   `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"product,omitempty"`
	VariantID *uuid.UUID `gorm:"type:uuid;index" json:"variant_id,omitempty"`
	Variant   *Variant   `gorm:"foreignKey:VariantID;constraint:OnDelete:SET NULL" json:"variant,omitempty"`

	// Quantity actually applied: the delta for stock actions, the proposed
	// initial quantity for create.
	QuantityChange int `gorm:"not null;default:0" json:"quantity_change"`

	BuyerName     *string        `gorm:"type:varchar(255)" json:"buyer_name,omitempty"`
	PaymentStatus *PaymentStatus `gorm:"type:varchar(10);index" json:"payment_status,omitempty"`

	RequesterID *uuid.UUID `gorm:"type:uuid" json:"requester_id,omitempty"`
	Requester   *User      `gorm:"foreignKey:RequesterID;constraint:OnDelete:SET NULL" json:"requester,omitempty"`
	ReviewerID  *uuid.UUID `gorm:"type:uuid" json:"reviewer_id,omitempty"`
	Reviewer    *User      `gorm:"foreignKey:ReviewerID;constraint:OnDelete:SET NULL" json:"reviewer,omitempty"`
}

// TableName keeps the ledger table readable in SQL
func (ChangeHistory) TableName() string {
	return "change_history"
}
