package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserRole is scoped to the user's organization
type UserRole string

const (
	RoleOwner   UserRole = "owner"
	RoleCashier UserRole = "cashier"
)

// User represents an authenticated user in the system
type User struct {
	BaseModel
	Username       string        `gorm:"type:varchar(255);uniqueIndex;not null" json:"username" validate:"required"`
	Password       string        `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	OrganizationID *uuid.UUID    `gorm:"type:uuid;index" json:"organization_id,omitempty"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID" json:"organization,omitempty"`
	Role           UserRole      `gorm:"type:varchar(20);not null;default:cashier" json:"role" validate:"required,oneof=owner cashier"`
	IsActive       bool          `gorm:"default:true" json:"is_active"`
	TokenVersion   string        `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	Role           UserRole   `json:"role"`
	IsActive       bool       `json:"is_active"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		OrganizationID: u.OrganizationID,
		Role:           u.Role,
		IsActive:       u.IsActive,
	}
}
