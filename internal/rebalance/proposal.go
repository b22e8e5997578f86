package rebalance

import (
	"time"

	"github.com/google/uuid"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// Options carries the tunable policies for proposal building. The zero
// value falls back to the default tax rates, default cost model, and the
// current UTC time.
type Options struct {
	TaxRates  TaxRates
	CostModel CostModel
	// Now anchors holding-period estimates; zero means time.Now().UTC().
	Now time.Time
}

func (o Options) withDefaults() Options {
	if o.TaxRates == (TaxRates{}) {
		o.TaxRates = DefaultTaxRates()
	}
	if o.CostModel == (CostModel{}) {
		o.CostModel = DefaultCostModel()
	}
	if o.Now.IsZero() {
		o.Now = time.Now().UTC()
	}
	return o
}

// Proposal is the immutable result of one rebalancing computation for one
// portfolio.
type Proposal struct {
	ID               string                  `json:"id"`
	PortfolioID      string                  `json:"portfolioId"`
	PortfolioName    string                  `json:"portfolioName"`
	TotalMarketValue float64                 `json:"totalMarketValue"`
	ThresholdPct     float64                 `json:"thresholdPct"`
	Drift            []DriftResult           `json:"drift"`
	Trades           []SuggestedTrade        `json:"trades"`
	TaxImpacts       []TaxImpact             `json:"taxImpacts"`
	Costs            TransactionCostEstimate `json:"costs"`
	GeneratedAt      time.Time               `json:"generatedAt"`
}

// BuildProposal runs the full rebalancing pipeline for one portfolio:
// drift detection, trade suggestion, tax impact, and transaction-cost
// estimation. The computation shares no state across invocations, so it is
// safe to call once per portfolio concurrently when batch-rebalancing many
// portfolios under one target allocation.
func BuildProposal(
	portfolioID, portfolioName string,
	positions []model.Position,
	targets []model.TargetAllocation,
	thresholdPct float64,
	opts Options,
) Proposal {
	opts = opts.withDefaults()

	var totalValue float64
	for _, p := range positions {
		totalValue += p.MarketValue
	}

	drift := DetectDrift(positions, targets, thresholdPct)
	trades := SuggestTrades(positions, targets, totalValue)
	impacts := EstimateTaxImpact(trades, positions, opts.Now, opts.TaxRates)
	costs := EstimateTransactionCosts(trades, opts.CostModel)

	return Proposal{
		ID:               uuid.New().String(),
		PortfolioID:      portfolioID,
		PortfolioName:    portfolioName,
		TotalMarketValue: totalValue,
		ThresholdPct:     thresholdPct,
		Drift:            drift,
		Trades:           trades,
		TaxImpacts:       impacts,
		Costs:            costs,
		GeneratedAt:      opts.Now,
	}
}
