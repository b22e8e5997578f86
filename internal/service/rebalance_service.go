package service

import (
	"context"
	"fmt"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/apperrors"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/rebalance"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/repository"
)

// RebalanceService handles rebalancing business logic: drift detection,
// trade suggestion, and tax/cost estimation for single portfolios and
// advisory batches.
type RebalanceService struct {
	portfolioRepo *repository.PortfolioRepository
	positionRepo  *repository.PositionRepository
	targetRepo    *repository.TargetRepository

	opts             rebalance.Options
	defaultThreshold float64
}

// DriftAlert is one portfolio whose allocation has drifted past the
// threshold, produced by the scheduled drift check.
type DriftAlert struct {
	PortfolioID   string                  `json:"portfolioId"`
	PortfolioName string                  `json:"portfolioName"`
	Breaches      []rebalance.DriftResult `json:"breaches"`
}

// NewRebalanceService creates a new RebalanceService with the provided
// repository dependencies. opts carries the tax rates and cost model applied
// to every proposal; defaultThreshold is used when a request omits one.
func NewRebalanceService(
	portfolioRepo *repository.PortfolioRepository,
	positionRepo *repository.PositionRepository,
	targetRepo *repository.TargetRepository,
	opts rebalance.Options,
	defaultThreshold float64,
) *RebalanceService {
	return &RebalanceService{
		portfolioRepo:    portfolioRepo,
		positionRepo:     positionRepo,
		targetRepo:       targetRepo,
		opts:             opts,
		defaultThreshold: defaultThreshold,
	}
}

// BuildProposal computes a rebalancing proposal for one portfolio against
// its stored target allocation. A zero thresholdPct falls back to the
// configured default. Returns apperrors.ErrTargetAllocationNotFound when the
// portfolio has no targets configured.
func (s *RebalanceService) BuildProposal(portfolioID string, thresholdPct float64) (rebalance.Proposal, error) {
	if thresholdPct == 0 {
		thresholdPct = s.defaultThreshold
	}

	portfolio, err := s.portfolioRepo.GetPortfolio(portfolioID)
	if err != nil {
		return rebalance.Proposal{}, err
	}

	targets, err := s.targetRepo.GetTargets(portfolioID)
	if err != nil {
		return rebalance.Proposal{}, fmt.Errorf("failed to load target allocation: %w", err)
	}
	if len(targets) == 0 {
		return rebalance.Proposal{}, apperrors.ErrTargetAllocationNotFound
	}

	positions, err := s.positionRepo.GetPositions(portfolioID)
	if err != nil {
		return rebalance.Proposal{}, fmt.Errorf("failed to load positions: %w", err)
	}

	return rebalance.BuildProposal(portfolio.ID, portfolio.Name, positions, targets, thresholdPct, s.opts), nil
}

// BatchProposals computes proposals for many portfolios against one shared
// target set, typically a model portfolio applied across client accounts.
// Proposals come back in the order of portfolioIDs.
func (s *RebalanceService) BatchProposals(
	ctx context.Context,
	portfolioIDs []string,
	targets []model.TargetAllocation,
	thresholdPct float64,
) ([]rebalance.Proposal, error) {

	if thresholdPct == 0 {
		thresholdPct = s.defaultThreshold
	}

	portfolios := make([]rebalance.PortfolioPositions, 0, len(portfolioIDs))
	for _, id := range portfolioIDs {
		portfolio, err := s.portfolioRepo.GetPortfolio(id)
		if err != nil {
			return nil, err
		}

		positions, err := s.positionRepo.GetPositions(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load positions for portfolio %s: %w", id, err)
		}

		portfolios = append(portfolios, rebalance.PortfolioPositions{
			PortfolioID:   portfolio.ID,
			PortfolioName: portfolio.Name,
			Positions:     positions,
		})
	}

	return rebalance.BatchProposals(ctx, portfolios, targets, thresholdPct, s.opts)
}

// CheckDrift recomputes drift for every non-archived portfolio with a
// target allocation and returns the ones breaching the threshold. Used by
// the scheduled drift check; portfolios without targets are skipped.
func (s *RebalanceService) CheckDrift(thresholdPct float64) ([]DriftAlert, error) {
	if thresholdPct == 0 {
		thresholdPct = s.defaultThreshold
	}

	portfolios, err := s.portfolioRepo.GetAllPortfolios()
	if err != nil {
		return nil, err
	}

	alerts := []DriftAlert{}
	for _, pf := range portfolios {
		if pf.IsArchived {
			continue
		}

		targets, err := s.targetRepo.GetTargets(pf.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load target allocation for portfolio %s: %w", pf.ID, err)
		}
		if len(targets) == 0 {
			continue
		}

		positions, err := s.positionRepo.GetPositions(pf.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load positions for portfolio %s: %w", pf.ID, err)
		}

		drift := rebalance.DetectDrift(positions, targets, thresholdPct)
		breaches := []rebalance.DriftResult{}
		for _, d := range drift {
			if d.Breached {
				breaches = append(breaches, d)
			}
		}

		if len(breaches) > 0 {
			alerts = append(alerts, DriftAlert{
				PortfolioID:   pf.ID,
				PortfolioName: pf.Name,
				Breaches:      breaches,
			})
		}
	}

	return alerts, nil
}
