package service

import (
	"time"

	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
)

// AnalyticsSummary is the sales overview for a period
type AnalyticsSummary struct {
	repository.SalesSummary
	BestSellingVariants []repository.BestSeller `json:"best_selling_variants"`
}

type AnalyticsService interface {
	Summary(actor Actor, from, to *time.Time) (*AnalyticsSummary, error)
	LowStock(actor Actor) ([]model.Variant, error)
}

type analyticsService struct {
	saleRepo    repository.SaleRepository
	productRepo repository.ProductRepository
}

func NewAnalyticsService(saleRepo repository.SaleRepository, productRepo repository.ProductRepository) AnalyticsService {
	return &analyticsService{saleRepo: saleRepo, productRepo: productRepo}
}

func (s *analyticsService) Summary(actor Actor, from, to *time.Time) (*AnalyticsSummary, error) {
	summary, err := s.saleRepo.Summary(actor.OrganizationID, from, to)
	if err != nil {
		return nil, err
	}
	best, err := s.saleRepo.BestSellers(actor.OrganizationID, from, to, 5)
	if err != nil {
		return nil, err
	}
	return &AnalyticsSummary{
		SalesSummary:        *summary,
		BestSellingVariants: best,
	}, nil
}

func (s *analyticsService) LowStock(actor Actor) ([]model.Variant, error) {
	return s.productRepo.FindLowStock(actor.OrganizationID)
}
