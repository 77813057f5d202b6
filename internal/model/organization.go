package model

import "github.com/google/uuid"

// Organization is the multi-tenant boundary. Every product, sale and user
// lookup is scoped to exactly one organization.
type Organization struct {
	BaseModel
	Name    string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	OwnerID *uuid.UUID `gorm:"type:uuid" json:"owner_id,omitempty"`
}
