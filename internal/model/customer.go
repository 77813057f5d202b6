package model

import "github.com/google/uuid"

// Customer tracks repeat buyers for an organization
type Customer struct {
	BaseModel
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index:idx_customers_org" json:"organization_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Phone          string    `gorm:"type:varchar(50);index" json:"phone,omitempty"`
	Email          string    `gorm:"type:varchar(255)" json:"email,omitempty" validate:"omitempty,email"`
	Address        string    `gorm:"type:text" json:"address,omitempty"`
}
