package costbasis

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/apperrors"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n-1)
}

func buy(id string, d time.Time, qty, price float64) model.Transaction {
	return model.Transaction{
		ID: id, PortfolioID: "pf-1", SecurityID: "SEC-A",
		Type: model.TransactionBuy, Quantity: qty, Price: price,
		TotalAmount: qty * price, TradeDate: d,
	}
}

func sellTxn(id string, d time.Time, qty, price float64) model.Transaction {
	return model.Transaction{
		ID: id, PortfolioID: "pf-1", SecurityID: "SEC-A",
		Type: model.TransactionSell, Quantity: qty, Price: price,
		TotalAmount: qty * price, TradeDate: d,
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// twoLotFixture is the canonical scenario: 100 units @ 10 on day 1,
// 100 units @ 20 on day 10, sell 150 on day 20.
func twoLotFixture() []model.Transaction {
	return []model.Transaction{
		buy("t-1", day(1), 100, 10),
		buy("t-2", day(10), 100, 20),
		sellTxn("t-3", day(20), 150, 30),
	}
}

// TestProcessSells_MethodCostBasis verifies the cost basis each accounting
// method assigns to the same sell.
//
// WHY: The lot-ordering rules are the core of the engine; a wrong ordering
// silently misstates realized gains on every report.
func TestProcessSells_MethodCostBasis(t *testing.T) {
	tests := []struct {
		name          string
		method        Method
		wantCostBasis float64
		wantRecords   int
	}{
		{name: "fifo consumes oldest first", method: FIFO, wantCostBasis: 100*10 + 50*20, wantRecords: 2},
		{name: "lifo consumes newest first", method: LIFO, wantCostBasis: 100*20 + 50*10, wantRecords: 2},
		{name: "average pools lots", method: AverageCost, wantCostBasis: 150 * 15, wantRecords: 1},
		{name: "specific consumes highest cost first", method: SpecificID, wantCostBasis: 100*20 + 50*10, wantRecords: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := twoLotFixture()
			lots := BuildTaxLots(txns, "")

			realized, warnings, err := ProcessSells(lots, txns, tt.method, "", OversellTruncate)
			if err != nil {
				t.Fatalf("ProcessSells() returned unexpected error: %v", err)
			}
			if len(warnings) != 0 {
				t.Errorf("Expected no warnings, got %v", warnings)
			}
			if len(realized) != tt.wantRecords {
				t.Fatalf("Expected %d realized records, got %d", tt.wantRecords, len(realized))
			}

			var costBasis, quantity float64
			for _, r := range realized {
				costBasis += r.CostBasis
				quantity += r.Quantity
				if !approx(r.GainLoss, r.Proceeds-r.CostBasis) {
					t.Errorf("Record gain %v inconsistent with proceeds %v - basis %v", r.GainLoss, r.Proceeds, r.CostBasis)
				}
			}

			if !approx(costBasis, tt.wantCostBasis) {
				t.Errorf("Expected cost basis %.2f, got %.2f", tt.wantCostBasis, costBasis)
			}
			if !approx(quantity, 150) {
				t.Errorf("Expected 150 units matched, got %.2f", quantity)
			}
		})
	}
}

// TestProcessSells_AverageRemainders verifies the proportional reduction of
// lot remainders under average cost: selling 150 of 200 pooled units leaves
// each 100-unit lot with 25 remaining.
func TestProcessSells_AverageRemainders(t *testing.T) {
	txns := twoLotFixture()
	lots := BuildTaxLots(txns, "")

	_, _, err := ProcessSells(lots, txns, AverageCost, "", OversellTruncate)
	if err != nil {
		t.Fatalf("ProcessSells() returned unexpected error: %v", err)
	}

	for _, lot := range lots {
		if !approx(lot.RemainingQuantity, 25) {
			t.Errorf("Lot %s: expected 25 remaining, got %.4f", lot.SourceTransactionID, lot.RemainingQuantity)
		}
	}
}

// TestProcessSells_AverageUsesEarliestPurchaseDate verifies the pooled
// record is labeled with the earliest eligible lot's purchase date.
func TestProcessSells_AverageUsesEarliestPurchaseDate(t *testing.T) {
	txns := twoLotFixture()
	lots := BuildTaxLots(txns, "")

	realized, _, err := ProcessSells(lots, txns, AverageCost, "", OversellTruncate)
	if err != nil {
		t.Fatalf("ProcessSells() returned unexpected error: %v", err)
	}
	if len(realized) != 1 {
		t.Fatalf("Expected 1 pooled record, got %d", len(realized))
	}
	if !realized[0].PurchaseDate.Equal(day(1)) {
		t.Errorf("Expected purchase date %v, got %v", day(1), realized[0].PurchaseDate)
	}
}

// TestProcessSells_Oversell exercises all three oversell policies with a
// sell of 300 units against lots totaling 150 remaining units.
func TestProcessSells_Oversell(t *testing.T) {
	oversellTxns := func() []model.Transaction {
		return []model.Transaction{
			buy("t-1", day(1), 100, 10),
			buy("t-2", day(10), 50, 20),
			sellTxn("t-3", day(20), 300, 30),
		}
	}

	t.Run("truncate matches only available quantity", func(t *testing.T) {
		txns := oversellTxns()
		lots := BuildTaxLots(txns, "")

		realized, warnings, err := ProcessSells(lots, txns, FIFO, "", OversellTruncate)
		if err != nil {
			t.Fatalf("ProcessSells() returned unexpected error: %v", err)
		}
		if len(warnings) != 0 {
			t.Errorf("Truncate policy should be silent, got warnings %v", warnings)
		}

		var matched float64
		for _, r := range realized {
			matched += r.Quantity
		}
		if matched > 150 {
			t.Errorf("Matched %.2f units, must never exceed the 150 available", matched)
		}
		if !approx(matched, 150) {
			t.Errorf("Expected 150 units matched, got %.2f", matched)
		}
	})

	t.Run("warn records a warning", func(t *testing.T) {
		txns := oversellTxns()
		lots := BuildTaxLots(txns, "")

		_, warnings, err := ProcessSells(lots, txns, FIFO, "", OversellWarn)
		if err != nil {
			t.Fatalf("ProcessSells() returned unexpected error: %v", err)
		}
		if len(warnings) != 1 {
			t.Fatalf("Expected 1 warning, got %d", len(warnings))
		}
	})

	t.Run("error aborts the computation", func(t *testing.T) {
		txns := oversellTxns()
		lots := BuildTaxLots(txns, "")

		_, _, err := ProcessSells(lots, txns, FIFO, "", OversellError)
		if err == nil {
			t.Fatal("Expected error, got nil")
		}
		if !errors.Is(err, apperrors.ErrInsufficientShares) {
			t.Errorf("Expected ErrInsufficientShares, got %v", err)
		}
	})

	t.Run("average truncates at pooled total", func(t *testing.T) {
		txns := oversellTxns()
		lots := BuildTaxLots(txns, "")

		realized, _, err := ProcessSells(lots, txns, AverageCost, "", OversellTruncate)
		if err != nil {
			t.Fatalf("ProcessSells() returned unexpected error: %v", err)
		}
		if len(realized) != 1 {
			t.Fatalf("Expected 1 record, got %d", len(realized))
		}
		if !approx(realized[0].Quantity, 150) {
			t.Errorf("Expected 150 units matched, got %.2f", realized[0].Quantity)
		}
	})
}

// TestProcessSells_SequentialSellsShareLots verifies that lot consumption
// carries across sells within one run: a second sell sees only what the
// first left behind.
func TestProcessSells_SequentialSellsShareLots(t *testing.T) {
	txns := []model.Transaction{
		buy("t-1", day(1), 100, 10),
		sellTxn("t-2", day(5), 60, 12),
		sellTxn("t-3", day(6), 60, 12),
	}
	lots := BuildTaxLots(txns, "")

	realized, _, err := ProcessSells(lots, txns, FIFO, "", OversellTruncate)
	if err != nil {
		t.Fatalf("ProcessSells() returned unexpected error: %v", err)
	}

	var matched float64
	for _, r := range realized {
		matched += r.Quantity
	}
	if !approx(matched, 100) {
		t.Errorf("Expected total 100 units matched across sells, got %.2f", matched)
	}
	if !approx(lots[0].RemainingQuantity, 0) {
		t.Errorf("Expected lot fully consumed, got %.2f remaining", lots[0].RemainingQuantity)
	}
}

// TestProcessSells_PortfolioIsolation verifies sells only consume lots from
// the same portfolio and security.
func TestProcessSells_PortfolioIsolation(t *testing.T) {
	other := buy("t-other", day(1), 100, 10)
	other.PortfolioID = "pf-2"

	txns := []model.Transaction{
		buy("t-1", day(1), 40, 10),
		other,
		sellTxn("t-2", day(10), 100, 15),
	}
	lots := BuildTaxLots(txns, "")

	realized, _, err := ProcessSells(lots, txns, FIFO, "", OversellTruncate)
	if err != nil {
		t.Fatalf("ProcessSells() returned unexpected error: %v", err)
	}

	var matched float64
	for _, r := range realized {
		matched += r.Quantity
		if r.PortfolioID != "pf-1" {
			t.Errorf("Realized record leaked portfolio %s", r.PortfolioID)
		}
	}
	if !approx(matched, 40) {
		t.Errorf("Expected 40 units matched from pf-1, got %.2f", matched)
	}

	for _, lot := range lots {
		if lot.PortfolioID == "pf-2" && !approx(lot.RemainingQuantity, 100) {
			t.Errorf("Other portfolio's lot was consumed: %.2f remaining", lot.RemainingQuantity)
		}
	}
}

// TestProcessSells_HoldingPeriodBoundary verifies the strict >365 day
// long-term boundary on lot-level realized records.
func TestProcessSells_HoldingPeriodBoundary(t *testing.T) {
	tests := []struct {
		name     string
		sellDay  int
		longTerm bool
	}{
		{name: "365 days is short-term", sellDay: 366, longTerm: false},
		{name: "366 days is long-term", sellDay: 367, longTerm: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txns := []model.Transaction{
				buy("t-1", day(1), 10, 10),
				sellTxn("t-2", day(tt.sellDay), 10, 20),
			}
			lots := BuildTaxLots(txns, "")

			realized, _, err := ProcessSells(lots, txns, FIFO, "", OversellTruncate)
			if err != nil {
				t.Fatalf("ProcessSells() returned unexpected error: %v", err)
			}
			if len(realized) != 1 {
				t.Fatalf("Expected 1 record, got %d", len(realized))
			}
			if realized[0].LongTerm != tt.longTerm {
				t.Errorf("Holding days %d: expected longTerm=%v, got %v",
					realized[0].HoldingDays, tt.longTerm, realized[0].LongTerm)
			}
		})
	}
}

func TestBuildTaxLots_SortsAndPreservesTies(t *testing.T) {
	sameDay1 := buy("t-1", day(5), 10, 11)
	sameDay2 := buy("t-2", day(5), 20, 12)
	earlier := buy("t-3", day(2), 30, 13)

	lots := BuildTaxLots([]model.Transaction{sameDay1, sameDay2, earlier}, "")
	if len(lots) != 3 {
		t.Fatalf("Expected 3 lots, got %d", len(lots))
	}

	if lots[0].SourceTransactionID != "t-3" {
		t.Errorf("Expected earliest buy first, got %s", lots[0].SourceTransactionID)
	}
	// Same-date ties keep transaction-list order.
	if lots[1].SourceTransactionID != "t-1" || lots[2].SourceTransactionID != "t-2" {
		t.Errorf("Same-date ties reordered: got %s, %s", lots[1].SourceTransactionID, lots[2].SourceTransactionID)
	}

	for _, lot := range lots {
		if !approx(lot.RemainingQuantity, lot.OriginalQuantity) {
			t.Errorf("Fresh lot should have full remaining quantity, got %.2f/%.2f",
				lot.RemainingQuantity, lot.OriginalQuantity)
		}
	}
}

func TestBuildTaxLots_FiltersByPortfolioAndType(t *testing.T) {
	other := buy("t-2", day(2), 10, 10)
	other.PortfolioID = "pf-2"

	txns := []model.Transaction{
		buy("t-1", day(1), 10, 10),
		other,
		sellTxn("t-3", day(3), 5, 12),
	}

	lots := BuildTaxLots(txns, "pf-1")
	if len(lots) != 1 {
		t.Fatalf("Expected 1 lot for pf-1, got %d", len(lots))
	}
	if lots[0].SourceTransactionID != "t-1" {
		t.Errorf("Wrong lot built: %s", lots[0].SourceTransactionID)
	}
}
