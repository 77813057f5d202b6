package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

type ChangeRequestRepository interface {
	Create(request *model.ChangeRequest) error
	FindPending(orgID uuid.UUID) ([]model.ChangeRequest, error)
	FindPendingByID(tx *gorm.DB, orgID, id uuid.UUID) (*model.ChangeRequest, error)
	Delete(tx *gorm.DB, id uuid.UUID) error
	HasPendingCreateWithSKU(tx *gorm.DB, orgID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error)
	HasPendingCreateWithBarcode(tx *gorm.DB, orgID uuid.UUID, barcode string, excludeID uuid.UUID) (bool, error)
}

type changeRequestRepo struct {
	db *gorm.DB
}

func NewChangeRequestRepo(db *gorm.DB) ChangeRequestRepository {
	return &changeRequestRepo{db}
}

func (r *changeRequestRepo) orDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *changeRequestRepo) Create(request *model.ChangeRequest) error {
	return r.db.Create(request).Error
}

func (r *changeRequestRepo) FindPending(orgID uuid.UUID) ([]model.ChangeRequest, error) {
	var requests []model.ChangeRequest
	err := r.db.Preload("Product").Preload("Variant").Preload("Requester").
		Where("organization_id = ? AND status = ?", orgID, model.StatusPending).
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

// FindPendingByID distinguishes a missing request (NotFound) from one that
// exists but is no longer pending (InvalidState); approval of a resolved
// request must fail loudly, never be silently ignored.
func (r *changeRequestRepo) FindPendingByID(tx *gorm.DB, orgID, id uuid.UUID) (*model.ChangeRequest, error) {
	var request model.ChangeRequest
	err := r.orDB(tx).First(&request, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("change request", id)
	}
	if err != nil {
		return nil, err
	}
	if request.Status != model.StatusPending {
		return nil, apperr.InvalidState("change request", id, "not pending")
	}
	return &request, nil
}

func (r *changeRequestRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	return r.orDB(tx).Delete(&model.ChangeRequest{}, "id = ?", id).Error
}

func (r *changeRequestRepo) HasPendingCreateWithSKU(tx *gorm.DB, orgID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.orDB(tx).Model(&model.ChangeRequest{}).
		Where("organization_id = ? AND action = ? AND status = ? AND new_sku = ? AND id <> ?",
			orgID, model.ActionCreate, model.StatusPending, sku, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *changeRequestRepo) HasPendingCreateWithBarcode(tx *gorm.DB, orgID uuid.UUID, barcode string, excludeID uuid.UUID) (bool, error) {
	var count int64
	err := r.orDB(tx).Model(&model.ChangeRequest{}).
		Where("organization_id = ? AND action = ? AND status = ? AND new_barcode = ? AND id <> ?",
			orgID, model.ActionCreate, model.StatusPending, barcode, excludeID).
		Count(&count).Error
	return count > 0, err
}
