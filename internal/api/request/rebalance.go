package request

// TargetInput is one target allocation entry supplied by the caller.
type TargetInput struct {
	SecurityID string  `json:"securityId"`
	TargetPct  float64 `json:"targetPct"`
}

// RebalanceRequest is the body for a single-portfolio rebalance. A zero
// threshold falls back to the server default.
type RebalanceRequest struct {
	ThresholdPct float64 `json:"thresholdPct"`
}

// BatchRebalanceRequest is the body for a batch rebalance: many portfolios
// evaluated against one shared target set.
type BatchRebalanceRequest struct {
	PortfolioIDs []string      `json:"portfolioIds"`
	Targets      []TargetInput `json:"targets"`
	ThresholdPct float64       `json:"thresholdPct"`
}
