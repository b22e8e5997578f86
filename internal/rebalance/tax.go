package rebalance

import (
	"time"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// Holding-period labels used on tax impact estimates.
const (
	HoldingLongTerm  = "long-term"
	HoldingShortTerm = "short-term"
)

// TaxRates holds the flat indicative rates applied to estimated gains.
// These are illustrative equity capital-gains rates, not a tax schedule.
type TaxRates struct {
	LongTerm  float64 `json:"longTerm"`
	ShortTerm float64 `json:"shortTerm"`
}

// DefaultTaxRates returns the indicative equity rates: 10% long-term,
// 15% short-term.
func DefaultTaxRates() TaxRates {
	return TaxRates{LongTerm: 0.10, ShortTerm: 0.15}
}

// TaxImpact estimates the tax consequence of one suggested sell.
type TaxImpact struct {
	SecurityID    string  `json:"securityId"`
	RealizedGain  float64 `json:"realizedGain"`
	HoldingPeriod string  `json:"holdingPeriod"`
	TaxRate       float64 `json:"taxRate"`
	EstimatedTax  float64 `json:"estimatedTax"`
}

// EstimateTaxImpact estimates the tax due on each sell-side trade using the
// position's average cost as the basis. A position held at least 365 days
// from its purchase date counts as long-term; a missing purchase date is
// conservatively treated as short-term. Losses produce zero estimated tax;
// no loss-offset modeling is attempted.
func EstimateTaxImpact(trades []SuggestedTrade, positions []model.Position, now time.Time, rates TaxRates) []TaxImpact {
	bysec := make(map[string]model.Position, len(positions))
	for _, p := range positions {
		bysec[p.SecurityID] = p
	}

	var impacts []TaxImpact
	for _, trade := range trades {
		if trade.Side != SideSell {
			continue
		}
		pos, ok := bysec[trade.SecurityID]
		if !ok {
			continue
		}

		gain := trade.EstimatedAmount - trade.Quantity*pos.AverageCost

		period := HoldingShortTerm
		rate := rates.ShortTerm
		if pos.PurchaseDate != nil {
			days := now.Sub(*pos.PurchaseDate).Hours() / 24
			if days >= 365 {
				period = HoldingLongTerm
				rate = rates.LongTerm
			}
		}

		tax := 0.0
		if gain > 0 {
			tax = gain * rate
		}

		impacts = append(impacts, TaxImpact{
			SecurityID:    trade.SecurityID,
			RealizedGain:  gain,
			HoldingPeriod: period,
			TaxRate:       rate,
			EstimatedTax:  tax,
		})
	}

	return impacts
}
