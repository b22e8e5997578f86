package costbasis

import (
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// PositionCostBasis aggregates open lots and unrealized detail for one
// security within one portfolio.
type PositionCostBasis struct {
	PortfolioID           string               `json:"portfolioId"`
	SecurityID            string               `json:"securityId"`
	TotalQuantity         float64              `json:"totalQuantity"`
	TotalCostBasis        float64              `json:"totalCostBasis"`
	AverageCost           float64              `json:"averageCost"`
	CurrentPrice          float64              `json:"currentPrice"`
	CurrentValue          float64              `json:"currentValue"`
	UnrealizedGainLoss    float64              `json:"unrealizedGainLoss"`
	UnrealizedGainLossPct float64              `json:"unrealizedGainLossPct"`
	Lots                  []*TaxLot            `json:"lots"`
	Unrealized            []UnrealizedGainLoss `json:"unrealized"`
}

// BuildPositionSummaries seeds one summary per known position, even when it
// has no open lots, then attaches open lots and unrealized detail records by
// (portfolioID, securityID) and finalizes the derived fields.
// Division-by-zero guards: average cost is 0 when total quantity is 0, and
// the unrealized percentage is 0 when total cost basis is 0.
func BuildPositionSummaries(
	lots []*TaxLot,
	unrealized []UnrealizedGainLoss,
	positions []model.Position,
) []PositionCostBasis {

	index := make(map[string]int, len(positions))
	summaries := make([]PositionCostBasis, 0, len(positions))
	for _, p := range positions {
		key := positionKey(p.PortfolioID, p.SecurityID)
		if _, ok := index[key]; ok {
			continue
		}
		index[key] = len(summaries)
		summaries = append(summaries, PositionCostBasis{
			PortfolioID:  p.PortfolioID,
			SecurityID:   p.SecurityID,
			CurrentPrice: p.CurrentPrice,
		})
	}

	for _, lot := range lots {
		if lot.RemainingQuantity <= 0 {
			continue
		}
		if i, ok := index[positionKey(lot.PortfolioID, lot.SecurityID)]; ok {
			summaries[i].Lots = append(summaries[i].Lots, lot)
		}
	}

	for _, u := range unrealized {
		if i, ok := index[positionKey(u.PortfolioID, u.SecurityID)]; ok {
			s := &summaries[i]
			s.Unrealized = append(s.Unrealized, u)
			s.TotalQuantity += u.Quantity
			s.TotalCostBasis += u.CostBasis
			s.CurrentValue += u.CurrentValue
			s.UnrealizedGainLoss += u.GainLoss
		}
	}

	for i := range summaries {
		s := &summaries[i]
		if s.TotalQuantity > 0 {
			s.AverageCost = s.TotalCostBasis / s.TotalQuantity
		}
		if s.TotalCostBasis != 0 {
			s.UnrealizedGainLossPct = s.UnrealizedGainLoss / s.TotalCostBasis * 100
		}
	}

	return summaries
}
