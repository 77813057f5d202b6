package service

import (
	"github.com/google/uuid"

	"go-pos-backend/internal/model"
)

// Actor is the already-authenticated identity every mutating operation
// receives. The core trusts it and performs no credential verification, but
// every lookup is filtered by its organization scope.
type Actor struct {
	UserID         uuid.UUID
	Username       string
	OrganizationID uuid.UUID
	Role           model.UserRole
}
