package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/internal/model"
)

// HistoryFilter narrows ledger listings. Zero values mean no filtering.
type HistoryFilter struct {
	Action     model.ChangeRequestAction
	From       *time.Time
	To         *time.Time
	UnpaidOnly bool
	Limit      int
	Offset     int
}

type HistoryRepository interface {
	Append(tx *gorm.DB, entry *model.ChangeHistory) error
	List(orgID uuid.UUID, filter HistoryFilter) ([]model.ChangeHistory, error)
	FindByID(tx *gorm.DB, orgID, id uuid.UUID) (*model.ChangeHistory, error)
	FindLatestUnpaidSell(tx *gorm.DB, orgID uuid.UUID, variantID uuid.UUID) (*model.ChangeHistory, error)
	MarkPaid(tx *gorm.DB, orgID, id uuid.UUID) error
	NullifyUserRefs(tx *gorm.DB, userID uuid.UUID) error
}

type historyRepo struct {
	db *gorm.DB
}

func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db}
}

func (r *historyRepo) orDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *historyRepo) Append(tx *gorm.DB, entry *model.ChangeHistory) error {
	return r.orDB(tx).Create(entry).Error
}

func (r *historyRepo) List(orgID uuid.UUID, filter HistoryFilter) ([]model.ChangeHistory, error) {
	var entries []model.ChangeHistory
	q := r.db.Preload("Product").Preload("Variant").Preload("Requester").Preload("Reviewer").
		Where("organization_id = ?", orgID)
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}
	if filter.UnpaidOnly {
		q = q.Where("payment_status = ? AND variant_id IS NOT NULL", model.PaymentUnpaid)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	err := q.Order("created_at DESC").Find(&entries).Error
	return entries, err
}

func (r *historyRepo) FindByID(tx *gorm.DB, orgID, id uuid.UUID) (*model.ChangeHistory, error) {
	var entry model.ChangeHistory
	err := r.orDB(tx).First(&entry, "id = ? AND organization_id = ?", id, orgID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("history entry", id)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *historyRepo) FindLatestUnpaidSell(tx *gorm.DB, orgID uuid.UUID, variantID uuid.UUID) (*model.ChangeHistory, error) {
	var entry model.ChangeHistory
	err := r.orDB(tx).
		Where("organization_id = ? AND variant_id = ? AND action = ? AND payment_status = ?",
			orgID, variantID, model.ActionSell, model.PaymentUnpaid).
		Order("created_at DESC").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("unpaid sale for variant", variantID)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// MarkPaid is the single permitted post-append mutation. The current-status
// guard lives in the WHERE clause so a concurrent re-mark cannot slip
// through; re-marking a paid entry fails with InvalidState.
func (r *historyRepo) MarkPaid(tx *gorm.DB, orgID, id uuid.UUID) error {
	db := r.orDB(tx)
	res := db.Model(&model.ChangeHistory{}).
		Where("id = ? AND organization_id = ? AND payment_status = ?", id, orgID, model.PaymentUnpaid).
		UpdateColumn("payment_status", model.PaymentPaid)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var entry model.ChangeHistory
		err := db.First(&entry, "id = ? AND organization_id = ?", id, orgID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("history entry", id)
		}
		if err != nil {
			return err
		}
		return apperr.InvalidState("history entry", id, "payment status is not unpaid")
	}
	return nil
}

// NullifyUserRefs re-points requester/reviewer references before a user row
// is removed; ledger rows are never cascaded.
func (r *historyRepo) NullifyUserRefs(tx *gorm.DB, userID uuid.UUID) error {
	db := r.orDB(tx)
	if err := db.Model(&model.ChangeHistory{}).Where("requester_id = ?", userID).
		UpdateColumn("requester_id", nil).Error; err != nil {
		return err
	}
	if err := db.Model(&model.ChangeHistory{}).Where("reviewer_id = ?", userID).
		UpdateColumn("reviewer_id", nil).Error; err != nil {
		return err
	}
	if err := db.Model(&model.ChangeRequest{}).Where("requester_id = ?", userID).
		UpdateColumn("requester_id", nil).Error; err != nil {
		return err
	}
	return db.Model(&model.Sale{}).Where("cashier_id = ?", userID).
		UpdateColumn("cashier_id", nil).Error
}
