package model

import "github.com/google/uuid"

// Vendor is a supplier products are sourced from
type Vendor struct {
	BaseModel
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_vendors_org" json:"organization_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	ContactPerson  string    `gorm:"type:varchar(255)" json:"contact_person,omitempty"`
	Phone          string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Email          string    `gorm:"type:varchar(255)" json:"email,omitempty" validate:"omitempty,email"`
	Address        string    `gorm:"type:text" json:"address,omitempty"`
}
