package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/events"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/pkg/validator"
)

// VariantInput describes one variant of a new product
type VariantInput struct {
	SKU           string          `json:"sku" validate:"required"`
	Barcode       *string         `json:"barcode,omitempty"`
	Attributes    string          `json:"attributes,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Quantity      int             `json:"quantity" validate:"gte=0"`
	MinStockLevel int             `json:"min_stock_level" validate:"gte=0"`
	UnitType      string          `json:"unit_type"`
}

// CreateProductInput creates a product with its variants in one request
type CreateProductInput struct {
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description,omitempty"`
	Category    string         `json:"category,omitempty"`
	Variants    []VariantInput `json:"variants" validate:"required,min=1,dive"`
}

// UpdateProductInput applies only the non-nil fields
type UpdateProductInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
}

type ProductService interface {
	CreateProduct(actor Actor, input *CreateProductInput) (*model.Product, error)
	ListProducts(actor Actor, includeArchived bool) ([]model.Product, error)
	GetProduct(actor Actor, id uuid.UUID) (*model.Product, error)
	UpdateProduct(actor Actor, id uuid.UUID, input *UpdateProductInput) (*model.Product, error)
	AddVariant(actor Actor, productID uuid.UUID, input *VariantInput) (*model.Variant, error)
	ArchiveProduct(actor Actor, id uuid.UUID) error
	UnarchiveProduct(actor Actor, id uuid.UUID) error
	DeleteProduct(actor Actor, id uuid.UUID) error
}

type productService struct {
	productRepo repository.ProductRepository
	db          *gorm.DB
	publisher   events.Publisher
	log         *logrus.Logger
}

func NewProductService(productRepo repository.ProductRepository, db *gorm.DB, publisher events.Publisher, log *logrus.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		db:          db,
		publisher:   publisher,
		log:         log,
	}
}

// checkVariantUnique enforces org-scoped SKU/barcode uniqueness before a
// create; the DB unique index is the backstop under races.
func (s *productService) checkVariantUnique(orgID uuid.UUID, sku string, barcode *string) error {
	if existing, err := s.productRepo.FindVariantBySKU(nil, orgID, sku); err == nil && existing != nil {
		return apperr.Conflict("SKU", sku)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if barcode != nil && *barcode != "" {
		if existing, err := s.productRepo.FindVariantByBarcode(nil, orgID, *barcode); err == nil && existing != nil {
			return apperr.Conflict("barcode", *barcode)
		} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return err
		}
	}
	return nil
}

func newVariant(orgID, productID uuid.UUID, input *VariantInput) *model.Variant {
	unitType := input.UnitType
	if unitType == "" {
		unitType = "pcs"
	}
	return &model.Variant{
		ProductID:      productID,
		OrganizationID: orgID,
		SKU:            input.SKU,
		Barcode:        input.Barcode,
		Attributes:     input.Attributes,
		PurchasePrice:  input.PurchasePrice,
		SalePrice:      input.SalePrice,
		Quantity:       input.Quantity,
		MinStockLevel:  input.MinStockLevel,
		UnitType:       unitType,
		IsActive:       true,
	}
}

func (s *productService) CreateProduct(actor Actor, input *CreateProductInput) (*model.Product, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
	}
	for _, v := range input.Variants {
		if v.SalePrice.IsNegative() || v.PurchasePrice.IsNegative() {
			return nil, apperr.Validation("prices for SKU %s must not be negative", v.SKU)
		}
		if err := s.checkVariantUnique(actor.OrganizationID, v.SKU, v.Barcode); err != nil {
			return nil, err
		}
	}

	product := &model.Product{
		OrganizationID: actor.OrganizationID,
		Name:           input.Name,
		Description:    input.Description,
		Category:       input.Category,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.productRepo.CreateProduct(tx, product); err != nil {
			return err
		}
		for i := range input.Variants {
			variant := newVariant(actor.OrganizationID, product.ID, &input.Variants[i])
			if err := s.productRepo.CreateVariant(tx, variant); err != nil {
				return err
			}
			product.Variants = append(product.Variants, *variant)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyEntityChanged(product.ID, "product_created", actor, fmt.Sprintf("%s created product '%s'", actor.Username, product.Name))
	return product, nil
}

func (s *productService) ListProducts(actor Actor, includeArchived bool) ([]model.Product, error) {
	return s.productRepo.FindProducts(actor.OrganizationID, includeArchived)
}

func (s *productService) GetProduct(actor Actor, id uuid.UUID) (*model.Product, error) {
	return s.productRepo.FindProductByID(nil, actor.OrganizationID, id)
}

func (s *productService) UpdateProduct(actor Actor, id uuid.UUID, input *UpdateProductInput) (*model.Product, error) {
	product, err := s.productRepo.FindProductByID(nil, actor.OrganizationID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Category != nil {
		product.Category = *input.Category
	}

	if err := s.productRepo.UpdateProduct(nil, product); err != nil {
		return nil, err
	}

	s.notifyEntityChanged(product.ID, "product_updated", actor, fmt.Sprintf("%s updated product '%s'", actor.Username, product.Name))
	return product, nil
}

func (s *productService) AddVariant(actor Actor, productID uuid.UUID, input *VariantInput) (*model.Variant, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
	}
	product, err := s.productRepo.FindProductByID(nil, actor.OrganizationID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.checkVariantUnique(actor.OrganizationID, input.SKU, input.Barcode); err != nil {
		return nil, err
	}

	variant := newVariant(actor.OrganizationID, product.ID, input)
	if err := s.productRepo.CreateVariant(nil, variant); err != nil {
		return nil, err
	}

	s.notifyEntityChanged(product.ID, "variant_created", actor, fmt.Sprintf("%s added variant %s to '%s'", actor.Username, variant.SKU, product.Name))
	return variant, nil
}

func (s *productService) ArchiveProduct(actor Actor, id uuid.UUID) error {
	if err := s.productRepo.SetArchived(nil, actor.OrganizationID, id, true); err != nil {
		return err
	}
	s.notifyEntityChanged(id, "product_archived", actor, "")
	return nil
}

func (s *productService) UnarchiveProduct(actor Actor, id uuid.UUID) error {
	if err := s.productRepo.SetArchived(nil, actor.OrganizationID, id, false); err != nil {
		return err
	}
	s.notifyEntityChanged(id, "product_unarchived", actor, "")
	return nil
}

func (s *productService) DeleteProduct(actor Actor, id uuid.UUID) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return s.productRepo.DeleteProduct(tx, actor.OrganizationID, id)
	})
	if err != nil {
		return err
	}
	s.notifyEntityChanged(id, "product_deleted", actor, "")
	return nil
}

func (s *productService) notifyEntityChanged(entityID uuid.UUID, action string, actor Actor, message string) {
	go s.publisher.Publish(events.Event{
		Type:     events.EntityChanged,
		EntityID: &entityID,
		Action:   action,
		Actor:    actor.Username,
		Message:  message,
	})
}
