package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

type VendorRepository interface {
	Create(vendor *model.Vendor) error
	FindAll(orgID uuid.UUID) ([]model.Vendor, error)
	FindByID(orgID, id uuid.UUID) (*model.Vendor, error)
	Update(vendor *model.Vendor) error
	Delete(orgID, id uuid.UUID) error
}

type vendorRepo struct {
	db *gorm.DB
}

func NewVendorRepo(db *gorm.DB) VendorRepository {
	return &vendorRepo{db}
}

func (r *vendorRepo) Create(vendor *model.Vendor) error {
	return r.db.Create(vendor).Error
}

func (r *vendorRepo) FindAll(orgID uuid.UUID) ([]model.Vendor, error) {
	var vendors []model.Vendor
	err := r.db.Where("organization_id = ?", orgID).Order("name ASC").Find(&vendors).Error
	return vendors, err
}

func (r *vendorRepo) FindByID(orgID, id uuid.UUID) (*model.Vendor, error) {
	var vendor model.Vendor
	err := r.db.First(&vendor, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("vendor", id)
	}
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

func (r *vendorRepo) Update(vendor *model.Vendor) error {
	return r.db.Save(vendor).Error
}

func (r *vendorRepo) Delete(orgID, id uuid.UUID) error {
	res := r.db.Delete(&model.Vendor{}, "id = ? AND organization_id = ?", id, orgID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("vendor", id)
	}
	return nil
}
