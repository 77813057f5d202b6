package service

import (
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

// SaleLineInput is one requested line of a sale
type SaleLineInput struct {
	VariantID uuid.UUID `json:"variant_id" validate:"uuid_required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CreateSaleInput describes a complete sale to commit atomically
type CreateSaleInput struct {
	CustomerID      *uuid.UUID           `json:"customer_id,omitempty"`
	PaymentMethod   model.PaymentMethod  `json:"payment_method" validate:"required,oneof=cash card mobile bank_transfer"`
	PaymentStatus   *model.PaymentStatus `json:"payment_status,omitempty"`
	BuyerName       *string              `json:"buyer_name,omitempty"`
	PaymentProofURL *string              `json:"payment_proof_url,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	Tax             decimal.Decimal      `json:"tax"`
	Discount        decimal.Decimal      `json:"discount"`
	Items           []SaleLineInput      `json:"items" validate:"required,min=1,dive"`
}

type SaleService interface {
	CreateSale(actor Actor, input *CreateSaleInput) (*model.Sale, error)
	ListSales(actor Actor, limit, offset int) ([]model.Sale, error)
	GetSale(actor Actor, id uuid.UUID) (*model.Sale, error)
}

type saleService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
	historyRepo repository.HistoryRepository
	db          *gorm.DB
	publisher   events.Publisher
	log         *logrus.Logger
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	historyRepo repository.HistoryRepository,
	db *gorm.DB,
	publisher events.Publisher,
	log *logrus.Logger,
) SaleService {
	return &saleService{
		saleRepo:    saleRepo,
		productRepo: productRepo,
		historyRepo: historyRepo,
		db:          db,
		publisher:   publisher,
		log:         log,
	}
}

// saleLine is an aggregated demand against one variant. Duplicate lines
// referencing the same variant are summed before the sufficiency check, so a
// sale of [(v,6),(v,6)] against quantity 10 fails as a whole.
type saleLine struct {
	variant  *model.Variant
	quantity int
}

// CreateSale validates stock sufficiency for every line, computes the
// monetary totals from prices read at this moment, and commits the sale
// header, its items, the stock decrements and the ledger entries as one
// transaction. On any failure nothing is retained.
func (s *saleService) CreateSale(actor Actor, input *CreateSaleInput) (*model.Sale, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
	}
	if input.Tax.IsNegative() || input.Discount.IsNegative() {
		return nil, apperr.Validation("tax and discount must not be negative")
	}

	paymentStatus := model.PaymentPaid
	if input.PaymentStatus != nil {
		if *input.PaymentStatus != model.PaymentPaid && *input.PaymentStatus != model.PaymentUnpaid {
			return nil, apperr.Validation("payment_status must be paid or unpaid")
		}
		paymentStatus = *input.PaymentStatus
	}

	var sale *model.Sale
	var touched []saleLine

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Aggregate demand per variant, preserving first-occurrence order.
		order := make([]uuid.UUID, 0, len(input.Items))
		demand := make(map[uuid.UUID]int, len(input.Items))
		for _, line := range input.Items {
			if _, seen := demand[line.VariantID]; !seen {
				order = append(order, line.VariantID)
			}
			demand[line.VariantID] += line.Quantity
		}

		// Resolve and check every line against the pre-transaction snapshot
		// before committing any mutation.
		lines := make([]saleLine, 0, len(order))
		for _, variantID := range order {
			variant, err := s.productRepo.FindVariantByID(tx, actor.OrganizationID, variantID)
			if err != nil {
				return err
			}
			needed := demand[variantID]
			if variant.Quantity < needed {
				return apperr.InsufficientStock(variant.SKU, variant.Quantity, needed)
			}
			lines = append(lines, saleLine{variant: variant, quantity: needed})
		}

		// Totals from prices frozen now.
		subtotal := decimal.Zero
		profit := decimal.Zero
		items := make([]model.SaleItem, 0, len(lines))
		for _, line := range lines {
			qty := decimal.NewFromInt(int64(line.quantity))
			subtotal = subtotal.Add(line.variant.SalePrice.Mul(qty))
			profit = profit.Add(line.variant.SalePrice.Sub(line.variant.PurchasePrice).Mul(qty))
			variantID := line.variant.ID
			items = append(items, model.SaleItem{
				VariantID:           &variantID,
				Quantity:            line.quantity,
				PriceAtSale:         line.variant.SalePrice,
				PurchasePriceAtSale: line.variant.PurchasePrice,
			})
		}
		total := subtotal.Add(input.Tax).Sub(input.Discount)

		cashierID := actor.UserID
		sale = &model.Sale{
			OrganizationID:  actor.OrganizationID,
			CashierID:       &cashierID,
			CustomerID:      input.CustomerID,
			Subtotal:        subtotal,
			Tax:             input.Tax,
			Discount:        input.Discount,
			TotalAmount:     total,
			Profit:          profit,
			PaymentMethod:   input.PaymentMethod,
			PaymentProofURL: input.PaymentProofURL,
			Notes:           input.Notes,
			Synced:          true,
			Items:           items,
		}
		if err := s.saleRepo.Create(tx, sale); err != nil {
			return err
		}

		// Guarded decrements. A concurrent sale that drained the stock since
		// the snapshot read surfaces here as InsufficientStock and rolls the
		// whole transaction back.
		for _, line := range lines {
			if err := s.productRepo.AdjustQuantity(tx, actor.OrganizationID, line.variant.ID, -line.quantity); err != nil {
				return err
			}
		}

		// Ledger entries for the decrements, one per variant.
		status := paymentStatus
		for _, line := range lines {
			variantID := line.variant.ID
			productID := line.variant.ProductID
			entry := &model.ChangeHistory{
				OrganizationID: actor.OrganizationID,
				Action:         model.ActionSell,
				Status:         model.StatusApproved,
				ProductID:      &productID,
				VariantID:      &variantID,
				QuantityChange: line.quantity,
				BuyerName:      input.BuyerName,
				PaymentStatus:  &status,
				RequesterID:    &cashierID,
			}
			if err := s.historyRepo.Append(tx, entry); err != nil {
				return err
			}
		}

		touched = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	go func() {
		for _, line := range touched {
			variantID := line.variant.ID
			s.publisher.Publish(events.Event{
				Type:     events.EntityChanged,
				EntityID: &variantID,
				Action:   "sale_created",
				Actor:    actor.Username,
				Message:  fmt.Sprintf("%s sold %d x %s", actor.Username, line.quantity, line.variant.SKU),
			})
		}
		s.publisher.Publish(events.Event{
			Type:  events.HistoryChanged,
			Actor: actor.Username,
		})
	}()

	return sale, nil
}

func (s *saleService) ListSales(actor Actor, limit, offset int) ([]model.Sale, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.saleRepo.FindAll(actor.OrganizationID, limit, offset)
}

func (s *saleService) GetSale(actor Actor, id uuid.UUID) (*model.Sale, error) {
	return s.saleRepo.FindByID(actor.OrganizationID, id)
}
