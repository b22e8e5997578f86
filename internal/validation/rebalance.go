package validation

import (
	"fmt"
	"strings"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/api/request"
)

// maxThresholdPct caps the drift threshold; anything above 50% would never
// flag a drift on a two-security portfolio.
const maxThresholdPct = 50

// targetSumTolerance absorbs floating-point noise when checking that target
// weights do not exceed 100%.
const targetSumTolerance = 0.01

// ValidateRebalance validates a single-portfolio rebalance request.
// A zero threshold is allowed and falls back to the server default.
func ValidateRebalance(req request.RebalanceRequest) error {
	errors := make(map[string]string)

	validateThreshold(req.ThresholdPct, errors)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateBatchRebalance validates a batch rebalance request.
//
// Required fields:
//   - portfolioIds: Non-empty, all valid UUIDs
//   - targets: Non-empty; each weight in [0, 100], weights summing to at most 100
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateBatchRebalance(req request.BatchRebalanceRequest) error {
	if err := ValidateUUIDs(req.PortfolioIDs); err != nil {
		return err
	}

	errors := make(map[string]string)

	validateThreshold(req.ThresholdPct, errors)

	if len(req.Targets) == 0 {
		errors["targets"] = "at least one target allocation is required"
	}

	var sum float64
	seen := make(map[string]bool, len(req.Targets))
	for _, t := range req.Targets {
		if strings.TrimSpace(t.SecurityID) == "" {
			errors["targets"] = "target securityId is required"
			continue
		}
		if seen[t.SecurityID] {
			errors["targets"] = fmt.Sprintf("duplicate target for security %s", t.SecurityID)
			continue
		}
		seen[t.SecurityID] = true

		if t.TargetPct < 0 || t.TargetPct > 100 {
			errors["targets"] = fmt.Sprintf("target weight for %s must be between 0 and 100", t.SecurityID)
			continue
		}
		sum += t.TargetPct
	}

	if sum > 100+targetSumTolerance {
		errors["targets"] = fmt.Sprintf("target weights sum to %.2f%%, exceeding 100%%", sum)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validateThreshold(thresholdPct float64, errors map[string]string) {
	if thresholdPct < 0 || thresholdPct > maxThresholdPct {
		errors["thresholdPct"] = fmt.Sprintf("threshold must be between 0 and %d", maxThresholdPct)
	}
}
