package model

import "time"

// Transaction types recorded against a portfolio.
const (
	TransactionBuy      = "buy"
	TransactionSell     = "sell"
	TransactionDividend = "dividend"
	TransactionFee      = "fee"
)

// Transaction represents a single trade record for a portfolio security.
// Transactions are the source of truth for all cost-basis calculations
// and are never mutated after creation.
type Transaction struct {
	ID             string     `json:"id"`
	PortfolioID    string     `json:"portfolioId"`
	SecurityID     string     `json:"securityId"`
	Type           string     `json:"type"`
	Quantity       float64    `json:"quantity"`
	Price          float64    `json:"price"`
	TotalAmount    float64    `json:"totalAmount"`
	TradeDate      time.Time  `json:"tradeDate"`
	SettlementDate *time.Time `json:"settlementDate,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt,omitempty"`
}
