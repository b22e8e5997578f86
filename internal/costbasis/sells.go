package costbasis

import (
	"fmt"
	"sort"
	"time"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/apperrors"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// RealizedGainLoss records one sell-to-lot match. For fifo/lifo/specific a
// sell touching N lots produces N records; for average cost it produces
// exactly one pooled record.
type RealizedGainLoss struct {
	PortfolioID       string    `json:"portfolioId"`
	SecurityID        string    `json:"securityId"`
	SellTransactionID string    `json:"sellTransactionId"`
	SellDate          time.Time `json:"sellDate"`
	LotID             string    `json:"lotId"`
	PurchaseDate      time.Time `json:"purchaseDate"`
	Quantity          float64   `json:"quantity"`
	Proceeds          float64   `json:"proceeds"`
	CostBasis         float64   `json:"costBasis"`
	GainLoss          float64   `json:"gainLoss"`
	HoldingDays       int       `json:"holdingDays"`
	LongTerm          bool      `json:"longTerm"`
}

// ProcessSells matches sell transactions against the given lots using the
// chosen accounting method and returns the realized gain/loss records.
//
// Sells are processed in ascending trade-date order. For each sell, lots of
// the same portfolio and security with remaining quantity are consumed
// according to the method's ordering. Lot remaining quantities are mutated
// in place; the caller owns the lot slice for the duration of one report
// computation.
//
// When a sell exceeds the total eligible remaining quantity, the policy
// decides the outcome: truncate silently, truncate with a warning, or abort
// with apperrors.ErrInsufficientShares.
func ProcessSells(
	lots []*TaxLot,
	transactions []model.Transaction,
	method Method,
	portfolioID string,
	policy OversellPolicy,
) ([]RealizedGainLoss, []string, error) {

	sells := make([]model.Transaction, 0)
	for _, t := range transactions {
		if t.Type != model.TransactionSell {
			continue
		}
		if portfolioID != "" && t.PortfolioID != portfolioID {
			continue
		}
		sells = append(sells, t)
	}

	sort.SliceStable(sells, func(i, j int) bool {
		return sells[i].TradeDate.Before(sells[j].TradeDate)
	})

	var realized []RealizedGainLoss
	var warnings []string

	for _, sell := range sells {
		eligible := eligibleLots(lots, sell.PortfolioID, sell.SecurityID)
		if len(eligible) == 0 {
			if msg, err := oversell(policy, sell, sell.Quantity); err != nil {
				return nil, nil, err
			} else if msg != "" {
				warnings = append(warnings, msg)
			}
			continue
		}

		sellPrice := sell.Price
		if sellPrice == 0 && sell.Quantity > 0 {
			sellPrice = sell.TotalAmount / sell.Quantity
		}

		var matched []RealizedGainLoss
		var unmatched float64
		switch method {
		case FIFO, LIFO, SpecificID:
			orderLots(eligible, method)
			matched, unmatched = consumeOrdered(eligible, sell, sellPrice)
		case AverageCost:
			matched, unmatched = consumePooled(eligible, sell, sellPrice)
		default:
			return nil, nil, fmt.Errorf("unsupported accounting method: %v", method)
		}

		realized = append(realized, matched...)

		if unmatched > 0 {
			if msg, err := oversell(policy, sell, unmatched); err != nil {
				return nil, nil, err
			} else if msg != "" {
				warnings = append(warnings, msg)
			}
		}
	}

	return realized, warnings, nil
}

// eligibleLots returns lots for the given portfolio/security that still have
// remaining quantity, preserving their current order.
func eligibleLots(lots []*TaxLot, portfolioID, securityID string) []*TaxLot {
	var out []*TaxLot
	for _, lot := range lots {
		if lot.PortfolioID == portfolioID && lot.SecurityID == securityID && lot.RemainingQuantity > 0 {
			out = append(out, lot)
		}
	}
	return out
}

// orderLots sorts eligible lots in consumption order for the method.
// FIFO relies on the ascending purchase-date order established by
// BuildTaxLots but re-sorts to stay independent of caller ordering.
func orderLots(lots []*TaxLot, method Method) {
	switch method {
	case FIFO:
		sort.SliceStable(lots, func(i, j int) bool {
			return lots[i].PurchaseDate.Before(lots[j].PurchaseDate)
		})
	case LIFO:
		sort.SliceStable(lots, func(i, j int) bool {
			return lots[i].PurchaseDate.After(lots[j].PurchaseDate)
		})
	case SpecificID:
		// Highest cost first, minimizing the realized gain.
		sort.SliceStable(lots, func(i, j int) bool {
			return lots[i].CostPerUnit > lots[j].CostPerUnit
		})
	case AverageCost:
		// Pooled consumption, order irrelevant.
	}
}

// consumeOrdered walks the ordered lots taking min(remaining, needed) from
// each until the sell is filled or lots are exhausted. One realized record
// is emitted per lot touched, each with its own holding period.
// Returns the records and any unmatched sell quantity.
func consumeOrdered(lots []*TaxLot, sell model.Transaction, sellPrice float64) ([]RealizedGainLoss, float64) {
	needed := sell.Quantity
	var out []RealizedGainLoss

	for _, lot := range lots {
		if needed <= 0 {
			break
		}
		take := lot.RemainingQuantity
		if take > needed {
			take = needed
		}

		days := holdingDays(lot.PurchaseDate, sell.TradeDate)
		costBasis := take * lot.CostPerUnit
		proceeds := take * sellPrice

		out = append(out, RealizedGainLoss{
			PortfolioID:       sell.PortfolioID,
			SecurityID:        sell.SecurityID,
			SellTransactionID: sell.ID,
			SellDate:          sell.TradeDate,
			LotID:             lot.ID,
			PurchaseDate:      lot.PurchaseDate,
			Quantity:          take,
			Proceeds:          proceeds,
			CostBasis:         costBasis,
			GainLoss:          proceeds - costBasis,
			HoldingDays:       days,
			LongTerm:          days > longTermDays,
		})

		lot.RemainingQuantity -= take
		needed -= take
	}

	return out, needed
}

// consumePooled treats all eligible lots as a single pooled lot at the
// weighted average cost. Exactly one record is emitted, labeled with the
// earliest eligible purchase date, and each lot's remaining quantity is
// reduced proportionally to its share of the pool.
func consumePooled(lots []*TaxLot, sell model.Transaction, sellPrice float64) ([]RealizedGainLoss, float64) {
	var totalRemaining, totalCost float64
	earliest := lots[0].PurchaseDate
	for _, lot := range lots {
		totalRemaining += lot.RemainingQuantity
		totalCost += lot.RemainingQuantity * lot.CostPerUnit
		if lot.PurchaseDate.Before(earliest) {
			earliest = lot.PurchaseDate
		}
	}
	if totalRemaining <= 0 {
		return nil, sell.Quantity
	}

	avgCost := totalCost / totalRemaining
	matched := sell.Quantity
	if matched > totalRemaining {
		matched = totalRemaining
	}

	days := holdingDays(earliest, sell.TradeDate)
	costBasis := matched * avgCost
	proceeds := matched * sellPrice

	record := RealizedGainLoss{
		PortfolioID:       sell.PortfolioID,
		SecurityID:        sell.SecurityID,
		SellTransactionID: sell.ID,
		SellDate:          sell.TradeDate,
		LotID:             lots[0].ID,
		PurchaseDate:      earliest,
		Quantity:          matched,
		Proceeds:          proceeds,
		CostBasis:         costBasis,
		GainLoss:          proceeds - costBasis,
		HoldingDays:       days,
		LongTerm:          days > longTermDays,
	}

	// Proportional reduction: each lot gives up its share of the pool.
	ratio := matched / totalRemaining
	for _, lot := range lots {
		lot.RemainingQuantity -= lot.RemainingQuantity * ratio
	}

	return []RealizedGainLoss{record}, sell.Quantity - matched
}

// oversell applies the configured policy to an unmatched sell quantity.
// Returns a warning message for OversellWarn, an error for OversellError,
// and nothing for OversellTruncate.
func oversell(policy OversellPolicy, sell model.Transaction, unmatched float64) (string, error) {
	switch policy {
	case OversellError:
		return "", fmt.Errorf(
			"sell %s of %s exceeds available lots by %.4f units: %w",
			sell.ID, sell.SecurityID, unmatched, apperrors.ErrInsufficientShares,
		)
	case OversellWarn:
		return fmt.Sprintf(
			"sell %s of %s on %s: %.4f units had no matching lots and were not realized",
			sell.ID, sell.SecurityID, sell.TradeDate.Format("2006-01-02"), unmatched,
		), nil
	default:
		return "", nil
	}
}
