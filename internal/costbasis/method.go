package costbasis

import (
	"fmt"
	"strings"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/apperrors"
)

// Method selects the lot-consumption convention used when matching sell
// transactions against tax lots.
type Method int

const (
	// FIFO consumes the oldest lots first.
	FIFO Method = iota
	// LIFO consumes the newest lots first.
	LIFO
	// AverageCost pools all eligible lots into a single weighted-average lot.
	AverageCost
	// SpecificID approximates specific identification by consuming the
	// highest-cost lots first, minimizing the realized gain. True specific
	// identification would require the caller to pick lots per sale.
	SpecificID
)

// ParseMethod converts a method name ("fifo", "lifo", "average", "specific")
// into a Method. Matching is case-insensitive.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fifo":
		return FIFO, nil
	case "lifo":
		return LIFO, nil
	case "average":
		return AverageCost, nil
	case "specific":
		return SpecificID, nil
	default:
		return FIFO, fmt.Errorf("%w: %q", apperrors.ErrInvalidMethod, s)
	}
}

// String returns the canonical lower-case name of the method.
func (m Method) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case LIFO:
		return "lifo"
	case AverageCost:
		return "average"
	case SpecificID:
		return "specific"
	default:
		return "unknown"
	}
}

// OversellPolicy controls what happens when a sell transaction exceeds the
// total remaining quantity across all eligible lots.
type OversellPolicy int

const (
	// OversellTruncate silently matches only the available quantity.
	OversellTruncate OversellPolicy = iota
	// OversellWarn matches the available quantity and records a warning
	// on the report.
	OversellWarn
	// OversellError aborts the computation with an error.
	OversellError
)

// ParseOversellPolicy converts a policy name ("truncate", "warn", "error")
// into an OversellPolicy.
func ParseOversellPolicy(s string) (OversellPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "truncate":
		return OversellTruncate, nil
	case "warn":
		return OversellWarn, nil
	case "error":
		return OversellError, nil
	default:
		return OversellTruncate, fmt.Errorf("unknown oversell policy: %q", s)
	}
}

// String returns the canonical name of the policy.
func (p OversellPolicy) String() string {
	switch p {
	case OversellTruncate:
		return "truncate"
	case OversellWarn:
		return "warn"
	case OversellError:
		return "error"
	default:
		return "unknown"
	}
}
