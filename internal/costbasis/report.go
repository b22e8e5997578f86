package costbasis

import (
	"time"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// CostBasisReport is the top-level aggregate produced by ComputeReport.
// The report is immutable once built; all totals are split by long-/short-
// term holding classification.
type CostBasisReport struct {
	PortfolioID string              `json:"portfolioId,omitempty"`
	Method      Method              `json:"-"`
	MethodName  string              `json:"method"`
	AsOf        time.Time           `json:"asOf"`
	Positions   []PositionCostBasis `json:"positions"`
	Realized    []RealizedGainLoss  `json:"realized"`

	RealizedLongTerm    float64 `json:"realizedLongTerm"`
	RealizedShortTerm   float64 `json:"realizedShortTerm"`
	RealizedTotal       float64 `json:"realizedTotal"`
	UnrealizedLongTerm  float64 `json:"unrealizedLongTerm"`
	UnrealizedShortTerm float64 `json:"unrealizedShortTerm"`
	UnrealizedTotal     float64 `json:"unrealizedTotal"`

	Warnings []string `json:"warnings,omitempty"`
}

// ComputeReport runs the full cost-basis pipeline for one portfolio (or all
// portfolios when portfolioID is empty): lot construction from buys, sell
// matching under the chosen method, unrealized valuation as of asOf, and
// per-position aggregation.
//
// The function is pure with respect to its inputs: tax lots are rebuilt
// fresh from the transaction history on every call, so sequential calls
// never compound each other's lot consumption.
func ComputeReport(
	transactions []model.Transaction,
	positions []model.Position,
	method Method,
	portfolioID string,
	asOf time.Time,
	policy OversellPolicy,
) (*CostBasisReport, error) {

	filteredPositions := positions
	if portfolioID != "" {
		filteredPositions = make([]model.Position, 0, len(positions))
		for _, p := range positions {
			if p.PortfolioID == portfolioID {
				filteredPositions = append(filteredPositions, p)
			}
		}
	}

	lots := BuildTaxLots(transactions, portfolioID)

	realized, warnings, err := ProcessSells(lots, transactions, method, portfolioID, policy)
	if err != nil {
		return nil, err
	}

	unrealized := ComputeUnrealized(lots, filteredPositions, asOf)
	summaries := BuildPositionSummaries(lots, unrealized, filteredPositions)

	report := &CostBasisReport{
		PortfolioID: portfolioID,
		Method:      method,
		MethodName:  method.String(),
		AsOf:        asOf,
		Positions:   summaries,
		Realized:    realized,
		Warnings:    warnings,
	}

	for _, r := range realized {
		report.RealizedTotal += r.GainLoss
		if r.LongTerm {
			report.RealizedLongTerm += r.GainLoss
		} else {
			report.RealizedShortTerm += r.GainLoss
		}
	}
	for _, u := range unrealized {
		report.UnrealizedTotal += u.GainLoss
		if u.LongTerm {
			report.UnrealizedLongTerm += u.GainLoss
		} else {
			report.UnrealizedShortTerm += u.GainLoss
		}
	}

	return report, nil
}
