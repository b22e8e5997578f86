package rebalance

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// PortfolioPositions pairs a portfolio with its current position snapshot
// for batch proposal building.
type PortfolioPositions struct {
	PortfolioID   string
	PortfolioName string
	Positions     []model.Position
}

// BatchProposals builds one proposal per portfolio concurrently. All
// portfolios share the same target allocation and threshold. Each
// computation is independent, so no synchronization beyond the result slot
// assignment is needed. Results keep the order of the input slice.
func BatchProposals(
	ctx context.Context,
	portfolios []PortfolioPositions,
	targets []model.TargetAllocation,
	thresholdPct float64,
	opts Options,
) ([]Proposal, error) {

	proposals := make([]Proposal, len(portfolios))

	g, ctx := errgroup.WithContext(ctx)
	for i, pf := range portfolios {
		i, pf := i, pf
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			proposals[i] = BuildProposal(pf.PortfolioID, pf.PortfolioName, pf.Positions, targets, thresholdPct, opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return proposals, nil
}
