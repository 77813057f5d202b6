package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go-pos-backend/internal/events"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
)

// HistoryListOptions narrows a ledger listing
type HistoryListOptions struct {
	Action model.ChangeRequestAction
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type HistoryService interface {
	List(actor Actor, opts HistoryListOptions) ([]model.ChangeHistory, error)
	ListSales(actor Actor, opts HistoryListOptions) ([]model.ChangeHistory, error)
	ListUnpaid(actor Actor) ([]model.ChangeHistory, error)
	MarkPaid(actor Actor, entryID uuid.UUID) (*model.ChangeHistory, error)
}

type historyService struct {
	historyRepo repository.HistoryRepository
	db          *gorm.DB
	publisher   events.Publisher
	log         *logrus.Logger
}

func NewHistoryService(historyRepo repository.HistoryRepository, db *gorm.DB, publisher events.Publisher, log *logrus.Logger) HistoryService {
	return &historyService{
		historyRepo: historyRepo,
		db:          db,
		publisher:   publisher,
		log:         log,
	}
}

func (s *historyService) List(actor Actor, opts HistoryListOptions) ([]model.ChangeHistory, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	return s.historyRepo.List(actor.OrganizationID, repository.HistoryFilter{
		Action: opts.Action,
		From:   opts.From,
		To:     opts.To,
		Limit:  limit,
		Offset: opts.Offset,
	})
}

func (s *historyService) ListSales(actor Actor, opts HistoryListOptions) ([]model.ChangeHistory, error) {
	opts.Action = model.ActionSell
	return s.List(actor, opts)
}

func (s *historyService) ListUnpaid(actor Actor) ([]model.ChangeHistory, error) {
	return s.historyRepo.List(actor.OrganizationID, repository.HistoryFilter{
		Action:     model.ActionSell,
		UnpaidOnly: true,
		Limit:      100,
	})
}

// MarkPaid is the direct administrative form of the payment correction,
// bypassing the request queue. Same guard: unpaid -> paid exactly once.
func (s *historyService) MarkPaid(actor Actor, entryID uuid.UUID) (*model.ChangeHistory, error) {
	var entry *model.ChangeHistory
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.historyRepo.MarkPaid(tx, actor.OrganizationID, entryID); err != nil {
			return err
		}
		var err error
		entry, err = s.historyRepo.FindByID(tx, actor.OrganizationID, entryID)
		return err
	})
	if err != nil {
		return nil, err
	}

	go s.publisher.Publish(events.Event{
		Type:  events.HistoryChanged,
		Actor: actor.Username,
	})
	return entry, nil
}
