package rebalance

import (
	"fmt"
	"math"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// Trade sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// materialityFloor is the minimum absolute value difference (in currency
// units) worth trading; smaller differences produce no suggestion.
const materialityFloor = 100.0

// SuggestedTrade is a corrective trade proposed to move a position toward
// its target weight.
type SuggestedTrade struct {
	SecurityID      string  `json:"securityId"`
	Side            string  `json:"side"`
	Quantity        float64 `json:"quantity"`
	EstimatedAmount float64 `json:"estimatedAmount"`
	Price           float64 `json:"price"`
	Reason          string  `json:"reason"`
}

// SuggestTrades proposes whole-share trades that move each position toward
// its target value. Buys are floored to whole shares; sells are additionally
// capped at the held quantity so a suggestion can never sell more than is
// owned. Holdings absent from the targets receive a full-exit sell.
//
// A non-positive total market value yields an empty result.
func SuggestTrades(positions []model.Position, targets []model.TargetAllocation, totalMarketValue float64) []SuggestedTrade {
	if totalMarketValue <= 0 {
		return []SuggestedTrade{}
	}

	bysec := make(map[string]model.Position, len(positions))
	for _, p := range positions {
		bysec[p.SecurityID] = p
	}

	var trades []SuggestedTrade
	targeted := make(map[string]bool, len(targets))

	for _, t := range targets {
		targeted[t.SecurityID] = true

		pos, held := bysec[t.SecurityID]
		currentValue := 0.0
		if held {
			currentValue = pos.MarketValue
		}

		desired := t.TargetPct / 100 * totalMarketValue
		diff := desired - currentValue
		if math.Abs(diff) < materialityFloor {
			continue
		}

		price := pos.CurrentPrice
		currentPct := currentValue / totalMarketValue * 100

		if diff > 0 {
			if price <= 0 {
				continue
			}
			qty := math.Floor(diff / price)
			if qty <= 0 {
				continue
			}
			trades = append(trades, SuggestedTrade{
				SecurityID:      t.SecurityID,
				Side:            SideBuy,
				Quantity:        qty,
				EstimatedAmount: qty * price,
				Price:           price,
				Reason: fmt.Sprintf(
					"underweight: currently %.2f%%, target %.2f%%", currentPct, t.TargetPct,
				),
			})
			continue
		}

		if !held || price <= 0 {
			continue
		}
		qty := math.Floor(-diff / price)
		if qty > pos.Quantity {
			qty = pos.Quantity
		}
		if qty <= 0 {
			continue
		}
		trades = append(trades, SuggestedTrade{
			SecurityID:      t.SecurityID,
			Side:            SideSell,
			Quantity:        qty,
			EstimatedAmount: qty * price,
			Price:           price,
			Reason: fmt.Sprintf(
				"overweight: currently %.2f%%, target %.2f%%", currentPct, t.TargetPct,
			),
		})
	}

	// Full exit for anything held outside the target allocation.
	for _, p := range positions {
		if targeted[p.SecurityID] {
			continue
		}
		if p.Quantity <= 0 || p.CurrentPrice <= 0 {
			continue
		}
		trades = append(trades, SuggestedTrade{
			SecurityID:      p.SecurityID,
			Side:            SideSell,
			Quantity:        p.Quantity,
			EstimatedAmount: p.Quantity * p.CurrentPrice,
			Price:           p.CurrentPrice,
			Reason:          "not in target allocation",
		})
	}

	return trades
}
