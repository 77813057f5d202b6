package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

// applyResult is what an action hands back to the approval flow: the entity
// references and quantity to record in history, plus an optional deferred
// entity effect that runs after the history row is written (same
// transaction).
type applyResult struct {
	productID   *uuid.UUID
	variantID   *uuid.UUID
	quantity    int
	deferred    func(tx *gorm.DB) error
	skipHistory bool
	// For mark_paid: the corrected existing ledger entry.
	corrected *model.ChangeHistory
}

// approvalAction is the decoded form of a change request. One concrete type
// per action kind, each carrying only the fields that kind needs; decoding
// validates the row before any write happens.
type approvalAction interface {
	apply(tx *gorm.DB, s *changeRequestService, req *model.ChangeRequest) (*applyResult, error)
}

type addStockAction struct {
	variantID uuid.UUID
	quantity  int
}

type sellStockAction struct {
	variantID uuid.UUID
	quantity  int
}

type createItemAction struct {
	name          string
	category      string
	sku           string
	barcode       *string
	salePrice     decimal.Decimal
	purchasePrice decimal.Decimal
	quantity      int
	minStockLevel int
	unitType      string
}

type updateItemAction struct {
	variantID uuid.UUID
}

type archiveItemAction struct {
	productID uuid.UUID
	archived  bool
}

type deleteItemAction struct {
	productID uuid.UUID
}

type markPaidAction struct {
	historyID *uuid.UUID
	variantID *uuid.UUID
}

// decodeAction turns a stored request row into its typed action, rejecting
// rows whose field subset does not match the action kind.
func decodeAction(req *model.ChangeRequest) (approvalAction, error) {
	switch req.Action {
	case model.ActionAdd, model.ActionSell:
		if req.VariantID == nil {
			return nil, apperr.Validation("%s request %s has no target variant", req.Action, req.ID)
		}
		if req.QuantityChange <= 0 {
			return nil, apperr.Validation("%s request %s has non-positive quantity %d", req.Action, req.ID, req.QuantityChange)
		}
		if req.Action == model.ActionAdd {
			return &addStockAction{variantID: *req.VariantID, quantity: req.QuantityChange}, nil
		}
		return &sellStockAction{variantID: *req.VariantID, quantity: req.QuantityChange}, nil

	case model.ActionCreate:
		if req.NewName == nil || req.NewSKU == nil || req.NewSalePrice == nil {
			return nil, apperr.Validation("create request %s is missing name, SKU or sale price", req.ID)
		}
		act := &createItemAction{
			name:      *req.NewName,
			sku:       *req.NewSKU,
			barcode:   req.NewBarcode,
			salePrice: *req.NewSalePrice,
			unitType:  "pcs",
		}
		if req.NewCategory != nil {
			act.category = *req.NewCategory
		}
		if req.NewPurchasePrice != nil {
			act.purchasePrice = *req.NewPurchasePrice
		}
		if req.NewQuantity != nil {
			if *req.NewQuantity < 0 {
				return nil, apperr.Validation("create request %s has negative initial quantity", req.ID)
			}
			act.quantity = *req.NewQuantity
		}
		if req.NewMinStockLevel != nil {
			act.minStockLevel = *req.NewMinStockLevel
		}
		if req.NewUnitType != nil {
			act.unitType = *req.NewUnitType
		}
		return act, nil

	case model.ActionUpdate:
		if req.VariantID == nil {
			return nil, apperr.Validation("update request %s has no target variant", req.ID)
		}
		if req.NewSKU == nil && req.NewBarcode == nil && req.NewSalePrice == nil &&
			req.NewPurchasePrice == nil && req.NewMinStockLevel == nil && req.NewUnitType == nil {
			return nil, apperr.Validation("update request %s proposes no changes", req.ID)
		}
		return &updateItemAction{variantID: *req.VariantID}, nil

	case model.ActionArchive, model.ActionRestore:
		if req.ProductID == nil {
			return nil, apperr.Validation("%s request %s has no target product", req.Action, req.ID)
		}
		return &archiveItemAction{productID: *req.ProductID, archived: req.Action == model.ActionArchive}, nil

	case model.ActionDelete:
		if req.ProductID == nil {
			return nil, apperr.Validation("delete request %s has no target product", req.ID)
		}
		return &deleteItemAction{productID: *req.ProductID}, nil

	case model.ActionMarkPaid:
		if req.HistoryID == nil && req.VariantID == nil {
			return nil, apperr.Validation("mark_paid request %s names neither a history entry nor a variant", req.ID)
		}
		return &markPaidAction{historyID: req.HistoryID, variantID: req.VariantID}, nil
	}
	return nil, apperr.Validation("unknown action kind '%s'", req.Action)
}

func (a *addStockAction) apply(tx *gorm.DB, s *changeRequestService, req *model.ChangeRequest) (*applyResult, error) {
	variant, err := s.productRepo.FindVariantByID(tx, req.OrganizationID, a.variantID)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.AdjustQuantity(tx, req.OrganizationID, a.variantID, a.quantity); err != nil {
		return nil, err
	}
	return &applyResult{
		productID: &variant.ProductID,
		variantID: &variant.ID,
		quantity:  a.quantity,
	}, nil
}

func (a *sellStockAction) apply(tx *gorm.DB, s *changeRequestService, req *model.ChangeRequest) (*applyResult, error) {
	variant, err := s.productRepo.FindVariantByID(tx, req.OrganizationID, a.variantID)
	if err != nil {
		return nil, err
	}
	// InsufficientStock aborts the whole approval: no history is written and
	// the request stays pending.
	if err := s.productRepo.AdjustQuantity(tx, req.OrganizationID, a.variantID, -a.quantity); err != nil {
		return nil, err
	}
	return &applyResult{
		productID: &variant.ProductID,
		variantID: &variant.ID,
		quantity:  a.quantity,
	}, nil
}

func (a *createItemAction) apply(tx *gorm.DB, s *changeRequestService, req *model.ChangeRequest) (*applyResult, error) {
	if existing, err := s.productRepo.FindVariantBySKU(tx, req.OrganizationID, a.sku); err == nil && existing != nil {
		return nil, apperr.Conflict("SKU", a.sku)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	if a.barcode != nil && *a.barcode != "" {
		if existing, err := s.productRepo.FindVariantByBarcode(tx, req.OrganizationID, *a.barcode); err == nil && existing != nil {
			return nil, apperr.Conflict("barcode", *a.barcode)
		} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
	}
	// Another pending create proposing the same SKU means two concurrent
	// creations; the first one approved wins.
	if dup, err := s.requestRepo.HasPendingCreateWithSKU(tx, req.OrganizationID, a.sku, req.ID); err != nil {
		return nil, err
	} else if dup {
		return nil, apperr.Conflict("pending creation for SKU", a.sku)
	}
	if a.barcode != nil && *a.barcode != "" {
		if dup, err := s.requestRepo.HasPendingCreateWithBarcode(tx, req.OrganizationID, *a.barcode, req.ID); err != nil {
			return nil, err
		} else if dup {
			return nil, apperr.Conflict("pending creation for barcode", *a.barcode)
		}
	}

	product := &model.Product{
		OrganizationID: req.OrganizationID,
		Name:           a.name,
		Category:       a.category,
	}
	if err := s.productRepo.CreateProduct(tx, product); err != nil {
		return nil, err
	}
	variant := &model.Variant{
		ProductID:      product.ID,
		OrganizationID: req.OrganizationID,
		SKU:            a.sku,
		Barcode:        a.barcode,
		PurchasePrice:  a.purchasePrice,
		SalePrice:      a.salePrice,
		Quantity:       a.quantity,
		MinStockLevel:  a.minStockLevel,
		UnitType:       a.unitType,
		IsActive:       true,
	}
	if err := s.productRepo.CreateVariant(tx, variant); err != nil {
		return nil, err
	}
	// History records the proposed initial quantity for create.
	return &applyResult{
		productID: &product.ID,
		variantID: &variant.ID,
		quantity:  a.quantity,
	}, nil
}

func (a *updateItemAction) apply(tx *gorm.DB, s *changeRequestService, req *model.ChangeRequest) (*applyResult, error) {
	variant, err := s.productRepo.FindVariantByID(tx, req.OrganizationID, a.variantID)
	if err != nil {
		return nil, err
	}

	if req.NewSKU != nil && *req.NewSKU != variant.SKU {
		if existing, err := s.productRepo.FindVariantBySKU(tx, req.OrganizationID, *req.NewSKU); err == nil && existing != nil && existing.ID != variant.ID {
			return nil, apperr.Conflict("SKU", *req.NewSKU)
		} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		variant.SKU = *req.NewSKU
	}
	if req.NewBarcode != nil {
		if *req.NewBarcode != "" {
			if existing, err := s.productRepo.FindVariantByBarcode(tx, req.OrganizationID, *req.NewBarcode); err == nil && existing != nil && existing.ID != variant.ID {
				return nil, apperr.Conflict("barcode", *req.NewBarcode)
			} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
				return nil, err
			}
		}
		variant.Barcode = req.NewBarcode
	}
	if req.NewSalePrice != nil {
		variant.SalePrice = *req.NewSalePrice
	}
	if req.NewPurchasePrice != nil {
		variant.PurchasePrice = *req.NewPurchasePrice
	}
	if req.NewMinStockLevel != nil {
		variant.MinStockLevel = *req.NewMinStockLevel
	}
	if req.NewUnitType != nil {
		variant.UnitType = *req.NewUnitType
	}

	if err := s.productRepo.UpdateVariant(tx, variant); err != nil {
		return nil, err
	}
	return &applyResult{
		productID: &variant.ProductID,
		variantID: &variant.ID,
	}, nil
}

func (a *archiveItemAction) apply(tx *gorm.DB, s *changeRequestService, req *model.ChangeRequest) (*applyResult, error) {
	// Existence check now; the flag flip is deferred until after the history
	// write so the ledger entry describes a state that actually followed it.
	if _, err := s.productRepo.FindProductByID(tx, req.OrganizationID, a.productID); err != nil {
		return nil, err
	}
	productID := a.productID
	archived := a.archived
	return &applyResult{
		productID: &productID,
		deferred: func(tx *gorm.DB) error {
			return s.productRepo.SetArchived(tx, req.OrganizationID, productID, archived)
		},
	}, nil
}

func (a *deleteItemAction) apply(tx *gorm.DB, s *changeRequestService, req *model.ChangeRequest) (*applyResult, error) {
	if _, err := s.productRepo.FindProductByID(tx, req.OrganizationID, a.productID); err != nil {
		return nil, err
	}
	productID := a.productID
	return &applyResult{
		productID: &productID,
		// Deletion runs after the ledger write; it re-points every
		// referencing history row (including the one just written) to null.
		deferred: func(tx *gorm.DB) error {
			return s.productRepo.DeleteProduct(tx, req.OrganizationID, productID)
		},
	}, nil
}

func (a *markPaidAction) apply(tx *gorm.DB, s *changeRequestService, req *model.ChangeRequest) (*applyResult, error) {
	var entry *model.ChangeHistory
	var err error
	if a.historyID != nil {
		entry, err = s.historyRepo.FindByID(tx, req.OrganizationID, *a.historyID)
	} else {
		entry, err = s.historyRepo.FindLatestUnpaidSell(tx, req.OrganizationID, *a.variantID)
	}
	if err != nil {
		return nil, err
	}
	if err := s.historyRepo.MarkPaid(tx, req.OrganizationID, entry.ID); err != nil {
		return nil, err
	}
	paid := model.PaymentPaid
	entry.PaymentStatus = &paid
	// Pure-metadata correction: no new ledger entry is emitted.
	return &applyResult{
		variantID:   entry.VariantID,
		productID:   entry.ProductID,
		skipHistory: true,
		corrected:   entry,
	}, nil
}
