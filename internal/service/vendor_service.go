package service

import (
	"github.com/google/uuid"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/validator"
)

type VendorInput struct {
	Name          string `json:"name" validate:"required,min=1,max=255"`
	ContactPerson string `json:"contact_person,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Address       string `json:"address,omitempty"`
}

type VendorService interface {
	List(actor Actor) ([]model.Vendor, error)
	Get(actor Actor, id uuid.UUID) (*model.Vendor, error)
	Create(actor Actor, input *VendorInput) (*model.Vendor, error)
	Update(actor Actor, id uuid.UUID, input *VendorInput) (*model.Vendor, error)
	Delete(actor Actor, id uuid.UUID) error
}

type vendorService struct {
	vendorRepo repository.VendorRepository
}

func NewVendorService(vendorRepo repository.VendorRepository) VendorService {
	return &vendorService{vendorRepo: vendorRepo}
}

func (s *vendorService) List(actor Actor) ([]model.Vendor, error) {
	return s.vendorRepo.FindAll(actor.OrganizationID)
}

func (s *vendorService) Get(actor Actor, id uuid.UUID) (*model.Vendor, error) {
	return s.vendorRepo.FindByID(actor.OrganizationID, id)
}

func (s *vendorService) Create(actor Actor, input *VendorInput) (*model.Vendor, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
	}
	vendor := &model.Vendor{
		OrganizationID: actor.OrganizationID,
		Name:           input.Name,
		ContactPerson:  input.ContactPerson,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
	}
	if err := s.vendorRepo.Create(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *vendorService) Update(actor Actor, id uuid.UUID, input *VendorInput) (*model.Vendor, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
	}
	vendor, err := s.vendorRepo.FindByID(actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	vendor.Name = input.Name
	vendor.ContactPerson = input.ContactPerson
	vendor.Phone = input.Phone
	vendor.Email = input.Email
	vendor.Address = input.Address
	if err := s.vendorRepo.Update(vendor); err != nil {
		return nil, err
	}
	return vendor, nil
}

func (s *vendorService) Delete(actor Actor, id uuid.UUID) error {
	return s.vendorRepo.Delete(actor.OrganizationID, id)
}
