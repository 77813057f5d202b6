package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

type CustomerRepository interface {
	Create(customer *model.Customer) error
	FindAll(orgID uuid.UUID) ([]model.Customer, error)
	FindByID(orgID, id uuid.UUID) (*model.Customer, error)
	Update(customer *model.Customer) error
	Delete(orgID, id uuid.UUID) error
}

type customerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) CustomerRepository {
	return &customerRepo{db}
}

func (r *customerRepo) Create(customer *model.Customer) error {
	return r.db.Create(customer).Error
}

func (r *customerRepo) FindAll(orgID uuid.UUID) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.Where("organization_id = ?", orgID).Order("name ASC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) FindByID(orgID, id uuid.UUID) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.First(&customer, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("customer", id)
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepo) Update(customer *model.Customer) error {
	return r.db.Save(customer).Error
}

func (r *customerRepo) Delete(orgID, id uuid.UUID) error {
	// Sales referencing the customer keep their rows; the reference degrades
	// to null.
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Sale{}).Where("customer_id = ?", id).
			UpdateColumn("customer_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Customer{}, "id = ? AND organization_id = ?", id, orgID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("customer", id)
		}
		return nil
	})
}
