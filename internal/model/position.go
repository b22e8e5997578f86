package model

import "time"

// Position represents a current holding snapshot for a portfolio security.
// PurchaseDate is optional and only used for the simplified holding-period
// estimate in the rebalancing path; lot-level holding periods are derived
// from transactions instead.
type Position struct {
	ID              string     `json:"id"`
	PortfolioID     string     `json:"portfolioId"`
	SecurityID      string     `json:"securityId"`
	SecurityName    string     `json:"securityName,omitempty"`
	Quantity        float64    `json:"quantity"`
	AverageCost     float64    `json:"averageCost"`
	CurrentPrice    float64    `json:"currentPrice"`
	MarketValue     float64    `json:"marketValue"`
	PurchaseDate    *time.Time `json:"purchaseDate,omitempty"`
	LastPriceUpdate *time.Time `json:"lastPriceUpdate,omitempty"`
}
