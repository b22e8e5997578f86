package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/apperrors"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/testutil"
)

// TestRebalanceService_BuildProposal tests proposal building against a
// portfolio's stored target allocation.
//
// WHY: The service must load positions and targets in the right shape for
// the engine, and refuse portfolios that have no configured targets rather
// than producing an empty proposal that looks meaningful.
func TestRebalanceService_BuildProposal(t *testing.T) {
	t.Run("builds proposal from stored positions and targets", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		pf := testutil.CreatePortfolio(t, db, "Balanced")
		// 80/20 split against a 50/50 target
		testutil.NewPosition(pf.ID, "RELIANCE").Holding(800, 90, 100).Build(t, db)
		testutil.NewPosition(pf.ID, "HDFCBANK").Holding(200, 110, 100).Build(t, db)
		testutil.CreateTarget(t, db, pf.ID, "RELIANCE", 50)
		testutil.CreateTarget(t, db, pf.ID, "HDFCBANK", 50)

		proposal, err := svc.BuildProposal(pf.ID, 5)
		if err != nil {
			t.Fatalf("BuildProposal() returned unexpected error: %v", err)
		}

		if proposal.PortfolioID != pf.ID {
			t.Errorf("Expected portfolio ID %s, got %s", pf.ID, proposal.PortfolioID)
		}
		if proposal.PortfolioName != "Balanced" {
			t.Errorf("Expected portfolio name Balanced, got %s", proposal.PortfolioName)
		}
		if proposal.TotalMarketValue != 100000 {
			t.Errorf("Expected total market value 100000, got %v", proposal.TotalMarketValue)
		}
		if len(proposal.Drift) != 2 {
			t.Fatalf("Expected 2 drift entries, got %d", len(proposal.Drift))
		}
		for _, d := range proposal.Drift {
			if !d.Breached {
				t.Errorf("Expected breach for %s at 30%% drift", d.SecurityID)
			}
		}
		if len(proposal.Trades) != 2 {
			t.Errorf("Expected 2 suggested trades, got %d", len(proposal.Trades))
		}
	})

	t.Run("zero threshold uses configured default", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		pf := testutil.CreatePortfolio(t, db, "Balanced")
		testutil.NewPosition(pf.ID, "RELIANCE").Holding(100, 100, 100).Build(t, db)
		testutil.CreateTarget(t, db, pf.ID, "RELIANCE", 100)

		proposal, err := svc.BuildProposal(pf.ID, 0)
		if err != nil {
			t.Fatalf("BuildProposal() returned unexpected error: %v", err)
		}

		// Test service default is 5
		if proposal.ThresholdPct != 5 {
			t.Errorf("Expected default threshold 5, got %v", proposal.ThresholdPct)
		}
	})

	t.Run("portfolio without targets returns ErrTargetAllocationNotFound", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		pf := testutil.CreatePortfolio(t, db, "Untargeted")
		testutil.NewPosition(pf.ID, "RELIANCE").Holding(100, 100, 100).Build(t, db)

		_, err := svc.BuildProposal(pf.ID, 5)
		if !errors.Is(err, apperrors.ErrTargetAllocationNotFound) {
			t.Errorf("Expected ErrTargetAllocationNotFound, got %v", err)
		}
	})

	t.Run("unknown portfolio returns ErrPortfolioNotFound", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		_, err := svc.BuildProposal(testutil.MakeID(), 5)
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})
}

// TestRebalanceService_BatchProposals tests the shared-target batch path.
//
// WHY: Advisors apply one model allocation across many client portfolios in
// one call; results must come back one per portfolio, in request order.
func TestRebalanceService_BatchProposals(t *testing.T) {
	targets := []model.TargetAllocation{
		{SecurityID: "RELIANCE", TargetPct: 60},
		{SecurityID: "HDFCBANK", TargetPct: 40},
	}

	t.Run("one proposal per portfolio in request order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		ids := make([]string, 3)
		for i := range ids {
			pf := testutil.CreatePortfolio(t, db, "Client")
			testutil.NewPosition(pf.ID, "RELIANCE").Holding(100, 90, 100).Build(t, db)
			ids[i] = pf.ID
		}

		proposals, err := svc.BatchProposals(context.Background(), ids, targets, 5)
		if err != nil {
			t.Fatalf("BatchProposals() returned unexpected error: %v", err)
		}

		if len(proposals) != 3 {
			t.Fatalf("Expected 3 proposals, got %d", len(proposals))
		}
		for i, p := range proposals {
			if p.PortfolioID != ids[i] {
				t.Errorf("Proposal %d: expected portfolio %s, got %s", i, ids[i], p.PortfolioID)
			}
		}
	})

	t.Run("any unknown portfolio fails the whole batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		pf := testutil.CreatePortfolio(t, db, "Client")

		_, err := svc.BatchProposals(context.Background(), []string{pf.ID, testutil.MakeID()}, targets, 5)
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})
}

// TestRebalanceService_CheckDrift tests the scheduled drift scan.
//
// WHY: The drift check drives advisory alerts; it must skip archived
// portfolios and portfolios without targets, and report only breaches.
func TestRebalanceService_CheckDrift(t *testing.T) {
	t.Run("reports only breaching portfolios", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		drifted := testutil.CreatePortfolio(t, db, "Drifted")
		testutil.NewPosition(drifted.ID, "RELIANCE").Holding(800, 90, 100).Build(t, db)
		testutil.NewPosition(drifted.ID, "HDFCBANK").Holding(200, 110, 100).Build(t, db)
		testutil.CreateTarget(t, db, drifted.ID, "RELIANCE", 50)
		testutil.CreateTarget(t, db, drifted.ID, "HDFCBANK", 50)

		onTarget := testutil.CreatePortfolio(t, db, "OnTarget")
		testutil.NewPosition(onTarget.ID, "RELIANCE").Holding(100, 100, 100).Build(t, db)
		testutil.CreateTarget(t, db, onTarget.ID, "RELIANCE", 100)

		// No targets, should be skipped entirely
		loose := testutil.CreatePortfolio(t, db, "Loose")
		testutil.NewPosition(loose.ID, "TCS").Holding(100, 100, 100).Build(t, db)

		alerts, err := svc.CheckDrift(5)
		if err != nil {
			t.Fatalf("CheckDrift() returned unexpected error: %v", err)
		}

		if len(alerts) != 1 {
			t.Fatalf("Expected 1 alert, got %d", len(alerts))
		}
		if alerts[0].PortfolioID != drifted.ID {
			t.Errorf("Expected alert for %s, got %s", drifted.ID, alerts[0].PortfolioID)
		}
		if len(alerts[0].Breaches) != 2 {
			t.Errorf("Expected 2 breaches, got %d", len(alerts[0].Breaches))
		}
	})

	t.Run("archived portfolios are skipped", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestRebalanceService(t, db)

		pf := testutil.NewPortfolio().WithName("Closed").Archived().Build(t, db)
		testutil.NewPosition(pf.ID, "RELIANCE").Holding(800, 90, 100).Build(t, db)
		testutil.NewPosition(pf.ID, "HDFCBANK").Holding(200, 110, 100).Build(t, db)
		testutil.CreateTarget(t, db, pf.ID, "RELIANCE", 50)
		testutil.CreateTarget(t, db, pf.ID, "HDFCBANK", 50)

		alerts, err := svc.CheckDrift(5)
		if err != nil {
			t.Fatalf("CheckDrift() returned unexpected error: %v", err)
		}

		if len(alerts) != 0 {
			t.Errorf("Expected no alerts for archived portfolio, got %d", len(alerts))
		}
	})
}
