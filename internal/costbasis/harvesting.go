package costbasis

import (
	"sort"
	"time"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// HarvestingOpportunity describes one open tax lot carrying an unrealized
// loss that could be sold to offset realized gains elsewhere. The estimated
// saving assumes the loss offsets gains taxed at the lot's own holding-period
// rate.
type HarvestingOpportunity struct {
	LotID              string    `json:"lotId"`
	PortfolioID        string    `json:"portfolioId"`
	SecurityID         string    `json:"securityId"`
	PurchaseDate       time.Time `json:"purchaseDate"`
	Quantity           float64   `json:"quantity"`
	CurrentPrice       float64   `json:"currentPrice"`
	UnrealizedLoss     float64   `json:"unrealizedLoss"`
	LossPct            float64   `json:"lossPct"`
	HoldingDays        int       `json:"holdingDays"`
	LongTerm           bool      `json:"longTerm"`
	EstimatedTaxSaving float64   `json:"estimatedTaxSaving"`
}

// FindHarvestingOpportunities scans the open tax lots for unrealized losses
// as of the valuation date and estimates the tax saving from realizing each
// one: the loss magnitude times the applicable long- or short-term rate.
// Lots at a gain or at break-even are excluded. Results are ordered biggest
// loss first, the order a harvesting review works through them.
//
// Lot consumption uses the truncate oversell policy: harvesting is an
// advisory view, so oversold histories degrade to the available quantity
// rather than failing the whole scan.
func FindHarvestingOpportunities(
	transactions []model.Transaction,
	positions []model.Position,
	method Method,
	portfolioID string,
	asOf time.Time,
	longTermRate, shortTermRate float64,
) ([]HarvestingOpportunity, error) {

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
	if _, _, err := ProcessSells(lots, transactions, method, portfolioID, OversellTruncate); err != nil {
		return nil, err
	}

	var out []HarvestingOpportunity
	for _, u := range ComputeUnrealized(lots, filteredPositions, asOf) {
		if u.GainLoss >= 0 {
			continue
		}

		rate := shortTermRate
		if u.LongTerm {
			rate = longTermRate
		}

		out = append(out, HarvestingOpportunity{
			LotID:              u.LotID,
			PortfolioID:        u.PortfolioID,
			SecurityID:         u.SecurityID,
			PurchaseDate:       u.PurchaseDate,
			Quantity:           u.Quantity,
			CurrentPrice:       u.CurrentPrice,
			UnrealizedLoss:     u.GainLoss,
			LossPct:            u.GainLossPct,
			HoldingDays:        u.HoldingDays,
			LongTerm:           u.LongTerm,
			EstimatedTaxSaving: -u.GainLoss * rate,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UnrealizedLoss < out[j].UnrealizedLoss
	})

	return out, nil
}
