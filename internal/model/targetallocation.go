package model

// TargetAllocation represents the desired portfolio weight for a security.
// TargetPct is expressed in percent (0-100).
type TargetAllocation struct {
	SecurityID string  `json:"securityId"`
	TargetPct  float64 `json:"targetPct"`
	AssetClass string  `json:"assetClass,omitempty"`
}
