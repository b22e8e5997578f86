package costbasis

import (
	"time"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// UnrealizedGainLoss records the paper gain or loss on one open tax lot,
// valued at the latest known price for the position.
type UnrealizedGainLoss struct {
	LotID        string    `json:"lotId"`
	PortfolioID  string    `json:"portfolioId"`
	SecurityID   string    `json:"securityId"`
	PurchaseDate time.Time `json:"purchaseDate"`
	Quantity     float64   `json:"quantity"`
	CostPerUnit  float64   `json:"costPerUnit"`
	CostBasis    float64   `json:"costBasis"`
	CurrentPrice float64   `json:"currentPrice"`
	CurrentValue float64   `json:"currentValue"`
	GainLoss     float64   `json:"gainLoss"`
	GainLossPct  float64   `json:"gainLossPct"`
	HoldingDays  int       `json:"holdingDays"`
	LongTerm     bool      `json:"longTerm"`
}

// ComputeUnrealized produces one record per lot with remaining quantity,
// valued as of asOf. The current price is looked up per
// (portfolioID, securityID) from the position snapshots; when no price is
// known the lot's own cost per unit is used, yielding zero unrealized gain
// rather than failing.
func ComputeUnrealized(lots []*TaxLot, positions []model.Position, asOf time.Time) []UnrealizedGainLoss {
	prices := make(map[string]float64, len(positions))
	for _, p := range positions {
		if p.CurrentPrice > 0 {
			prices[positionKey(p.PortfolioID, p.SecurityID)] = p.CurrentPrice
		}
	}

	var out []UnrealizedGainLoss
	for _, lot := range lots {
		if lot.RemainingQuantity <= 0 {
			continue
		}

		price, ok := prices[positionKey(lot.PortfolioID, lot.SecurityID)]
		if !ok {
			price = lot.CostPerUnit
		}

		costBasis := lot.RemainingQuantity * lot.CostPerUnit
		value := lot.RemainingQuantity * price
		gain := value - costBasis

		pct := 0.0
		if costBasis != 0 {
			pct = gain / costBasis * 100
		}

		days := holdingDays(lot.PurchaseDate, asOf)

		out = append(out, UnrealizedGainLoss{
			LotID:        lot.ID,
			PortfolioID:  lot.PortfolioID,
			SecurityID:   lot.SecurityID,
			PurchaseDate: lot.PurchaseDate,
			Quantity:     lot.RemainingQuantity,
			CostPerUnit:  lot.CostPerUnit,
			CostBasis:    costBasis,
			CurrentPrice: price,
			CurrentValue: value,
			GainLoss:     gain,
			GainLossPct:  pct,
			HoldingDays:  days,
			LongTerm:     days > longTermDays,
		})
	}

	return out
}

func positionKey(portfolioID, securityID string) string {
	return portfolioID + "|" + securityID
}
