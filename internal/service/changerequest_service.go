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

// SubmitChangeRequestInput is the wire form of a proposal. Stock actions may
// target by variant id, SKU or barcode; creation actions carry the proposed
// fields instead.
type SubmitChangeRequestInput struct {
	Action model.ChangeRequestAction `json:"action" validate:"required,oneof=add sell create update archive restore delete mark_paid"`

	VariantID *uuid.UUID `json:"variant_id,omitempty"`
	SKU       *string    `json:"sku,omitempty"`
	Barcode   *string    `json:"barcode,omitempty"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
	HistoryID *uuid.UUID `json:"history_id,omitempty"`

	QuantityChange int                  `json:"quantity_change"`
	BuyerName      *string              `json:"buyer_name,omitempty"`
	PaymentStatus  *model.PaymentStatus `json:"payment_status,omitempty"`

	NewName          *string          `json:"new_name,omitempty"`
	NewCategory      *string          `json:"new_category,omitempty"`
	NewSKU           *string          `json:"new_sku,omitempty"`
	NewBarcode       *string          `json:"new_barcode,omitempty"`
	NewSalePrice     *decimal.Decimal `json:"new_sale_price,omitempty"`
	NewPurchasePrice *decimal.Decimal `json:"new_purchase_price,omitempty"`
	NewQuantity      *int             `json:"new_quantity,omitempty"`
	NewMinStockLevel *int             `json:"new_min_stock_level,omitempty"`
	NewUnitType      *string          `json:"new_unit_type,omitempty"`
}

type ChangeRequestService interface {
	Submit(actor Actor, input *SubmitChangeRequestInput) (*model.ChangeRequest, error)
	ListPending(actor Actor) ([]model.ChangeRequest, error)
	Approve(actor Actor, requestID uuid.UUID) (*model.ChangeHistory, error)
	Reject(actor Actor, requestID uuid.UUID) (*model.ChangeHistory, error)
}

type changeRequestService struct {
	requestRepo repository.ChangeRequestRepository
	historyRepo repository.HistoryRepository
	productRepo repository.ProductRepository
	db          *gorm.DB
	publisher   events.Publisher
	log         *logrus.Logger
}

func NewChangeRequestService(
	requestRepo repository.ChangeRequestRepository,
	historyRepo repository.HistoryRepository,
	productRepo repository.ProductRepository,
	db *gorm.DB,
	publisher events.Publisher,
	log *logrus.Logger,
) ChangeRequestService {
	return &changeRequestService{
		requestRepo: requestRepo,
		historyRepo: historyRepo,
		productRepo: productRepo,
		db:          db,
		publisher:   publisher,
		log:         log,
	}
}

// Submit records a pending proposal. The target is resolved within the
// actor's organization; a request can never reference another organization's
// entity.
func (s *changeRequestService) Submit(actor Actor, input *SubmitChangeRequestInput) (*model.ChangeRequest, error) {
	if errs := validator.ValidateStruct(input); len(errs) > 0 {
		return nil, apperr.Validation("field '%s' failed on tag '%s'", errs[0].FailedField, errs[0].Tag)
	}

	req := &model.ChangeRequest{
		OrganizationID:   actor.OrganizationID,
		Action:           input.Action,
		Status:           model.StatusPending,
		ProductID:        input.ProductID,
		VariantID:        input.VariantID,
		HistoryID:        input.HistoryID,
		QuantityChange:   input.QuantityChange,
		BuyerName:        input.BuyerName,
		PaymentStatus:    input.PaymentStatus,
		NewName:          input.NewName,
		NewCategory:      input.NewCategory,
		NewSKU:           input.NewSKU,
		NewBarcode:       input.NewBarcode,
		NewSalePrice:     input.NewSalePrice,
		NewPurchasePrice: input.NewPurchasePrice,
		NewQuantity:      input.NewQuantity,
		NewMinStockLevel: input.NewMinStockLevel,
		NewUnitType:      input.NewUnitType,
	}
	requesterID := actor.UserID
	req.RequesterID = &requesterID

	switch input.Action {
	case model.ActionAdd, model.ActionSell, model.ActionUpdate, model.ActionMarkPaid:
		if req.VariantID == nil {
			variant, err := s.resolveVariant(actor.OrganizationID, input)
			if err != nil {
				if input.Action == model.ActionMarkPaid && input.HistoryID != nil {
					break // explicit history link, variant optional
				}
				return nil, err
			}
			req.VariantID = &variant.ID
			req.ProductID = &variant.ProductID
		}
	case model.ActionArchive, model.ActionRestore, model.ActionDelete:
		if req.ProductID == nil {
			return nil, apperr.Validation("%s requires a product id", input.Action)
		}
		if _, err := s.productRepo.FindProductByID(nil, actor.OrganizationID, *req.ProductID); err != nil {
			return nil, err
		}
	case model.ActionCreate:
		if input.NewSKU == nil || input.NewName == nil || input.NewSalePrice == nil {
			return nil, apperr.Validation("create requires new_name, new_sku and new_sale_price")
		}
		// Reject duplicates at submission already; approval re-checks under
		// the transaction.
		if dup, err := s.requestRepo.HasPendingCreateWithSKU(nil, actor.OrganizationID, *input.NewSKU, uuid.Nil); err != nil {
			return nil, err
		} else if dup {
			return nil, apperr.Conflict("pending creation for SKU", *input.NewSKU)
		}
		if input.NewBarcode != nil && *input.NewBarcode != "" {
			if dup, err := s.requestRepo.HasPendingCreateWithBarcode(nil, actor.OrganizationID, *input.NewBarcode, uuid.Nil); err != nil {
				return nil, err
			} else if dup {
				return nil, apperr.Conflict("pending creation for barcode", *input.NewBarcode)
			}
		}
	}

	// Decode once up front so a malformed proposal never reaches the queue.
	if _, err := decodeAction(req); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *changeRequestService) resolveVariant(orgID uuid.UUID, input *SubmitChangeRequestInput) (*model.Variant, error) {
	switch {
	case input.SKU != nil:
		return s.productRepo.FindVariantBySKU(nil, orgID, *input.SKU)
	case input.Barcode != nil:
		return s.productRepo.FindVariantByBarcode(nil, orgID, *input.Barcode)
	}
	return nil, apperr.Validation("%s requires a variant id, SKU or barcode", input.Action)
}

func (s *changeRequestService) ListPending(actor Actor) ([]model.ChangeRequest, error) {
	return s.requestRepo.FindPending(actor.OrganizationID)
}

// Approve resolves a pending request. The action's inventory effect, the
// history append, any deferred entity effect and the request deletion commit
// as one transaction; a business-rule failure rolls everything back and the
// request stays pending and retryable.
func (s *changeRequestService) Approve(actor Actor, requestID uuid.UUID) (*model.ChangeHistory, error) {
	var entry *model.ChangeHistory

	err := s.db.Transaction(func(tx *gorm.DB) error {
		req, err := s.requestRepo.FindPendingByID(tx, actor.OrganizationID, requestID)
		if err != nil {
			return err
		}

		action, err := decodeAction(req)
		if err != nil {
			return err
		}

		result, err := action.apply(tx, s, req)
		if err != nil {
			return err
		}

		if result.skipHistory {
			// mark_paid corrects an existing entry instead of appending.
			entry = result.corrected
		} else {
			reviewerID := actor.UserID
			entry = &model.ChangeHistory{
				OrganizationID: req.OrganizationID,
				Action:         req.Action,
				Status:         model.StatusApproved,
				ProductID:      result.productID,
				VariantID:      result.variantID,
				QuantityChange: result.quantity,
				BuyerName:      req.BuyerName,
				PaymentStatus:  req.PaymentStatus,
				RequesterID:    req.RequesterID,
				ReviewerID:     &reviewerID,
			}
			if err := s.historyRepo.Append(tx, entry); err != nil {
				return err
			}
		}

		if result.deferred != nil {
			if err := result.deferred(tx); err != nil {
				return err
			}
		}

		return s.requestRepo.Delete(tx, req.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyResolved(entry, actor, "approved")
	return entry, nil
}

// Reject writes a rejected ledger entry carrying the original proposed
// values and removes the request. Inventory is never touched.
func (s *changeRequestService) Reject(actor Actor, requestID uuid.UUID) (*model.ChangeHistory, error) {
	var entry *model.ChangeHistory

	err := s.db.Transaction(func(tx *gorm.DB) error {
		req, err := s.requestRepo.FindPendingByID(tx, actor.OrganizationID, requestID)
		if err != nil {
			return err
		}

		quantity := req.QuantityChange
		if req.Action == model.ActionCreate && req.NewQuantity != nil {
			quantity = *req.NewQuantity
		}

		reviewerID := actor.UserID
		entry = &model.ChangeHistory{
			OrganizationID: req.OrganizationID,
			Action:         req.Action,
			Status:         model.StatusRejected,
			ProductID:      req.ProductID,
			VariantID:      req.VariantID,
			QuantityChange: quantity,
			BuyerName:      req.BuyerName,
			PaymentStatus:  req.PaymentStatus,
			RequesterID:    req.RequesterID,
			ReviewerID:     &reviewerID,
		}
		if err := s.historyRepo.Append(tx, entry); err != nil {
			return err
		}

		return s.requestRepo.Delete(tx, req.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifyResolved(entry, actor, "rejected")
	return entry, nil
}

func (s *changeRequestService) notifyResolved(entry *model.ChangeHistory, actor Actor, verb string) {
	go func() {
		if entry != nil && entry.VariantID != nil {
			s.publisher.Publish(events.Event{
				Type:     events.EntityChanged,
				EntityID: entry.VariantID,
				Action:   string(entry.Action),
				Actor:    actor.Username,
				Message:  fmt.Sprintf("%s %s a %s request", actor.Username, verb, entry.Action),
			})
		}
		s.publisher.Publish(events.Event{
			Type:  events.HistoryChanged,
			Actor: actor.Username,
		})
	}()
}
