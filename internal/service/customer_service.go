package service

import (
	"github.com/google/uuid"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/validator"
)

type CustomerInput struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty"`
}

type CustomerService interface {
	List(actor Actor) ([]model.Customer, error)
	Get(actor Actor, id uuid.UUID) (*model.Customer, error)
	Create(actor Actor, input *CustomerInput) (*model.Customer, error)
	Update(actor Actor, id uuid.UUID, input *CustomerInput) (*model.Customer, error)
	Delete(actor Actor, id uuid.UUID) error
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) List(actor Actor) ([]model.Customer, error) {
	return s.customerRepo.FindAll(actor.OrganizationID)
}

func (s *customerService) Get(actor Actor, id uuid.UUID) (*model.Customer, error) {
	return s.customerRepo.FindByID(actor.OrganizationID, id)
}

func (s *customerService) Create(actor Actor, input *CustomerInput) (*model.Customer, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
	}
	customer := &model.Customer{
		OrganizationID: actor.OrganizationID,
		Name:           input.Name,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
	}
	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Update(actor Actor, id uuid.UUID, input *CustomerInput) (*model.Customer, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
	}
	customer, err := s.customerRepo.FindByID(actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}
	customer.Name = input.Name
	customer.Phone = input.Phone
	customer.Email = input.Email
	customer.Address = input.Address
	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) Delete(actor Actor, id uuid.UUID) error {
	return s.customerRepo.Delete(actor.OrganizationID, id)
}
