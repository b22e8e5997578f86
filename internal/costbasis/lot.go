package costbasis

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// TaxLot tracks the cost basis of a quantity of a security acquired in one
// buy transaction. RemainingQuantity decreases as sells are matched against
// the lot within a single report computation. Lots are owned by that
// computation and are never persisted or shared across calls.
type TaxLot struct {
	ID                  string    `json:"id"`
	PortfolioID         string    `json:"portfolioId"`
	SecurityID          string    `json:"securityId"`
	PurchaseDate        time.Time `json:"purchaseDate"`
	OriginalQuantity    float64   `json:"originalQuantity"`
	RemainingQuantity   float64   `json:"remainingQuantity"`
	CostPerUnit         float64   `json:"costPerUnit"`
	TotalCost           float64   `json:"totalCost"`
	SourceTransactionID string    `json:"sourceTransactionId"`
}

// BuildTaxLots constructs one tax lot per buy transaction, sorted ascending
// by trade date. Same-date ties keep the order of the input transaction list.
// If portfolioID is non-empty, only that portfolio's buys are considered.
//
// The returned lots start with RemainingQuantity equal to OriginalQuantity
// and are freshly allocated: callers mutate them freely during one
// computation without affecting any other call.
func BuildTaxLots(transactions []model.Transaction, portfolioID string) []*TaxLot {
	buys := make([]model.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if t.Type != model.TransactionBuy {
			continue
		}
		if portfolioID != "" && t.PortfolioID != portfolioID {
			continue
		}
		buys = append(buys, t)
	}

	// Stable sort preserves input order for same-date buys.
	sort.SliceStable(buys, func(i, j int) bool {
		return buys[i].TradeDate.Before(buys[j].TradeDate)
	})

	lots := make([]*TaxLot, 0, len(buys))
	for _, t := range buys {
		totalCost := t.TotalAmount
		if totalCost == 0 {
			totalCost = t.Quantity * t.Price
		}
		costPerUnit := t.Price
		if costPerUnit == 0 && t.Quantity > 0 {
			costPerUnit = totalCost / t.Quantity
		}

		lots = append(lots, &TaxLot{
			ID:                  uuid.New().String(),
			PortfolioID:         t.PortfolioID,
			SecurityID:          t.SecurityID,
			PurchaseDate:        t.TradeDate,
			OriginalQuantity:    t.Quantity,
			RemainingQuantity:   t.Quantity,
			CostPerUnit:         costPerUnit,
			TotalCost:           totalCost,
			SourceTransactionID: t.ID,
		})
	}

	return lots
}

// holdingDays returns the number of whole days between purchase and the
// given date.
func holdingDays(purchase, asOf time.Time) int {
	return int(asOf.Sub(purchase).Hours() / 24)
}

// longTermDays is the holding-period boundary: a position held strictly
// longer than this is long-term.
const longTermDays = 365
