package service

import (
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/repository"
)

// PortfolioService handles portfolio-related business logic operations.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
	positionRepo  *repository.PositionRepository
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	positionRepo *repository.PositionRepository,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		positionRepo:  positionRepo,
	}
}

// GetAllPortfolios retrieves all portfolios, including archived ones.
func (s *PortfolioService) GetAllPortfolios() ([]model.Portfolio, error) {
	return s.portfolioRepo.GetAllPortfolios()
}

// GetPortfolio retrieves a single portfolio by its ID.
// Returns apperrors.ErrPortfolioNotFound when no portfolio matches.
func (s *PortfolioService) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolio(portfolioID)
}

// GetPositions retrieves the current position snapshot for a portfolio,
// ordered by market value descending.
func (s *PortfolioService) GetPositions(portfolioID string) ([]model.Position, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	return s.positionRepo.GetPositions(portfolioID)
}
