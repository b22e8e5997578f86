package service

import (
	"fmt"
	"time"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/costbasis"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/repository"
)

// ReportService handles cost-basis reporting: gain/loss computation across
// accounting methods and capital-gains CSV export.
type ReportService struct {
	portfolioRepo   *repository.PortfolioRepository
	transactionRepo *repository.TransactionRepository
	positionRepo    *repository.PositionRepository

	defaultMethod string
	defaultPolicy string

	longTermTaxRate  float64
	shortTermTaxRate float64
}

// NewReportService creates a new ReportService with the provided repository
// dependencies. defaultMethod and defaultPolicy apply when a request does
// not specify an accounting method or oversell policy; the tax rates feed
// the harvesting saving estimates.
func NewReportService(
	portfolioRepo *repository.PortfolioRepository,
	transactionRepo *repository.TransactionRepository,
	positionRepo *repository.PositionRepository,
	defaultMethod, defaultPolicy string,
	longTermTaxRate, shortTermTaxRate float64,
) *ReportService {
	return &ReportService{
		portfolioRepo:    portfolioRepo,
		transactionRepo:  transactionRepo,
		positionRepo:     positionRepo,
		defaultMethod:    defaultMethod,
		defaultPolicy:    defaultPolicy,
		longTermTaxRate:  longTermTaxRate,
		shortTermTaxRate: shortTermTaxRate,
	}
}

// GetCostBasisReport computes the full cost-basis report for one portfolio:
// tax lots from the buy history, realized gains from sell matching under the
// chosen method, and unrealized gains against current prices.
//
// methodStr and policyStr may be empty, in which case the configured
// defaults apply. Returns apperrors.ErrPortfolioNotFound when the portfolio
// does not exist.
func (s *ReportService) GetCostBasisReport(
	portfolioID, methodStr, policyStr string,
	asOf time.Time,
) (*costbasis.CostBasisReport, error) {

	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}

	if methodStr == "" {
		methodStr = s.defaultMethod
	}
	method, err := costbasis.ParseMethod(methodStr)
	if err != nil {
		return nil, err
	}

	if policyStr == "" {
		policyStr = s.defaultPolicy
	}
	policy, err := costbasis.ParseOversellPolicy(policyStr)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetTransactions(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	positions, err := s.positionRepo.GetPositions(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	return costbasis.ComputeReport(transactions, positions, method, portfolioID, asOf, policy)
}

// ExportCapitalGains computes the cost-basis report and renders its realized
// gain records as a capital-gains CSV document.
func (s *ReportService) ExportCapitalGains(
	portfolioID, methodStr, policyStr string,
	asOf time.Time,
) (string, error) {

	report, err := s.GetCostBasisReport(portfolioID, methodStr, policyStr, asOf)
	if err != nil {
		return "", err
	}

	return costbasis.ExportCapitalGainsCSV(report)
}

// GetHarvestingOpportunities lists the portfolio's open tax lots carrying
// unrealized losses, biggest loss first, with the estimated tax saving from
// realizing each one. methodStr may be empty, in which case the configured
// default accounting method applies.
func (s *ReportService) GetHarvestingOpportunities(
	portfolioID, methodStr string,
	asOf time.Time,
) ([]costbasis.HarvestingOpportunity, error) {

	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}

	if methodStr == "" {
		methodStr = s.defaultMethod
	}
	method, err := costbasis.ParseMethod(methodStr)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetTransactions(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	positions, err := s.positionRepo.GetPositions(portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}

	return costbasis.FindHarvestingOpportunities(
		transactions, positions, method, portfolioID, asOf,
		s.longTermTaxRate, s.shortTermTaxRate,
	)
}
