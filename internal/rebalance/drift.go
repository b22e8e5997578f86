package rebalance

import (
	"math"
	"sort"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// Drift direction classifications.
const (
	DirectionOverweight  = "overweight"
	DirectionUnderweight = "underweight"
	DirectionOnTarget    = "on-target"
)

// deadBandPct is the fixed dead band for direction classification: drifts
// smaller than this are reported as on-target regardless of the caller's
// breach threshold.
const deadBandPct = 0.5

// DriftResult compares a security's current portfolio weight against its
// target weight.
type DriftResult struct {
	SecurityID string  `json:"securityId"`
	TargetPct  float64 `json:"targetPct"`
	CurrentPct float64 `json:"currentPct"`
	DriftPct   float64 `json:"driftPct"`
	AbsDrift   float64 `json:"absDrift"`
	Breached   bool    `json:"breached"`
	Direction  string  `json:"direction"`
}

// DetectDrift computes per-security allocation drift against the targets.
// Breach uses an inclusive comparison: absolute drift exactly equal to
// thresholdPct is a breach. Holdings absent from the target list are
// appended as overweight entries with a zero target. Results are sorted by
// absolute drift descending, most urgent first.
//
// A non-positive total market value yields an empty result.
func DetectDrift(positions []model.Position, targets []model.TargetAllocation, thresholdPct float64) []DriftResult {
	var totalValue float64
	for _, p := range positions {
		totalValue += p.MarketValue
	}
	if totalValue <= 0 {
		return []DriftResult{}
	}

	currentPct := make(map[string]float64, len(positions))
	for _, p := range positions {
		currentPct[p.SecurityID] += p.MarketValue / totalValue * 100
	}

	results := make([]DriftResult, 0, len(targets))
	targeted := make(map[string]bool, len(targets))

	for _, t := range targets {
		targeted[t.SecurityID] = true
		current := currentPct[t.SecurityID]
		results = append(results, classify(t.SecurityID, t.TargetPct, current, thresholdPct))
	}

	// Holdings with no target are fully overweight by definition.
	for _, p := range positions {
		if targeted[p.SecurityID] {
			continue
		}
		targeted[p.SecurityID] = true
		results = append(results, classify(p.SecurityID, 0, currentPct[p.SecurityID], thresholdPct))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].AbsDrift > results[j].AbsDrift
	})

	return results
}

func classify(securityID string, targetPct, currentPct, thresholdPct float64) DriftResult {
	drift := currentPct - targetPct
	abs := math.Abs(drift)

	direction := DirectionOnTarget
	if abs >= deadBandPct {
		if drift > 0 {
			direction = DirectionOverweight
		} else {
			direction = DirectionUnderweight
		}
	}

	return DriftResult{
		SecurityID: securityID,
		TargetPct:  targetPct,
		CurrentPct: currentPct,
		DriftPct:   drift,
		AbsDrift:   abs,
		Breached:   abs >= thresholdPct,
		Direction:  direction,
	}
}
