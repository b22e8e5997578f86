package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/api/handlers"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/rebalance"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/testutil"
	"github.com/go-chi/chi/v5"
)

func postJSON(t *testing.T, path string, params map[string]string, body any) *http.Request {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range params {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req
}

// TestRebalanceHandler_Rebalance tests the single-portfolio proposal endpoint.
//
// WHY: The endpoint accepts an optional threshold body; it must validate it,
// fall back to defaults when absent, and map service errors to proper codes.
func TestRebalanceHandler_Rebalance(t *testing.T) {
	setup := func(t *testing.T) (*handlers.RebalanceHandler, string) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewRebalanceHandler(testutil.NewTestRebalanceService(t, db))

		pf := testutil.CreatePortfolio(t, db, "Balanced")
		testutil.NewPosition(pf.ID, "RELIANCE").Holding(800, 90, 100).Build(t, db)
		testutil.NewPosition(pf.ID, "HDFCBANK").Holding(200, 110, 100).Build(t, db)
		testutil.CreateTarget(t, db, pf.ID, "RELIANCE", 50)
		testutil.CreateTarget(t, db, pf.ID, "HDFCBANK", 50)

		return handler, pf.ID
	}

	t.Run("returns proposal for drifted portfolio", func(t *testing.T) {
		handler, pfID := setup(t)

		req := postJSON(t, "/api/portfolio/"+pfID+"/rebalance",
			map[string]string{"portfolioId": pfID},
			map[string]any{"thresholdPct": 5},
		)
		rec := httptest.NewRecorder()

		handler.Rebalance(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var proposal rebalance.Proposal
		if err := json.Unmarshal(rec.Body.Bytes(), &proposal); err != nil {
			t.Fatalf("Failed to decode proposal: %v", err)
		}
		if proposal.PortfolioID != pfID {
			t.Errorf("Expected portfolio %s, got %s", pfID, proposal.PortfolioID)
		}
		if len(proposal.Trades) != 2 {
			t.Errorf("Expected 2 trades, got %d", len(proposal.Trades))
		}
		if proposal.Costs.Total <= 0 {
			t.Errorf("Expected positive transaction costs, got %v", proposal.Costs.Total)
		}
	})

	t.Run("empty body uses default threshold", func(t *testing.T) {
		handler, pfID := setup(t)

		req := testutil.NewRequestWithURLParams(
			http.MethodPost,
			"/api/portfolio/"+pfID+"/rebalance",
			map[string]string{"portfolioId": pfID},
		)
		rec := httptest.NewRecorder()

		handler.Rebalance(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var proposal rebalance.Proposal
		if err := json.Unmarshal(rec.Body.Bytes(), &proposal); err != nil {
			t.Fatalf("Failed to decode proposal: %v", err)
		}
		if proposal.ThresholdPct != 5 {
			t.Errorf("Expected default threshold 5, got %v", proposal.ThresholdPct)
		}
	})

	t.Run("out-of-range threshold returns 400", func(t *testing.T) {
		handler, pfID := setup(t)

		req := postJSON(t, "/api/portfolio/"+pfID+"/rebalance",
			map[string]string{"portfolioId": pfID},
			map[string]any{"thresholdPct": 75},
		)
		rec := httptest.NewRecorder()

		handler.Rebalance(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("portfolio without targets returns 404", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewRebalanceHandler(testutil.NewTestRebalanceService(t, db))

		pf := testutil.CreatePortfolio(t, db, "Untargeted")

		req := postJSON(t, "/api/portfolio/"+pf.ID+"/rebalance",
			map[string]string{"portfolioId": pf.ID},
			map[string]any{"thresholdPct": 5},
		)
		rec := httptest.NewRecorder()

		handler.Rebalance(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rec.Code)
		}
	})
}

// TestRebalanceHandler_BatchRebalance tests the shared-target batch endpoint.
func TestRebalanceHandler_BatchRebalance(t *testing.T) {
	t.Run("returns one proposal per portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewRebalanceHandler(testutil.NewTestRebalanceService(t, db))

		pf1 := testutil.CreatePortfolio(t, db, "Client A")
		pf2 := testutil.CreatePortfolio(t, db, "Client B")
		testutil.NewPosition(pf1.ID, "RELIANCE").Holding(100, 90, 100).Build(t, db)
		testutil.NewPosition(pf2.ID, "HDFCBANK").Holding(100, 90, 100).Build(t, db)

		req := postJSON(t, "/api/rebalance/batch", nil, map[string]any{
			"portfolioIds": []string{pf1.ID, pf2.ID},
			"targets": []map[string]any{
				{"securityId": "RELIANCE", "targetPct": 60},
				{"securityId": "HDFCBANK", "targetPct": 40},
			},
			"thresholdPct": 5,
		})
		rec := httptest.NewRecorder()

		handler.BatchRebalance(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var proposals []rebalance.Proposal
		if err := json.Unmarshal(rec.Body.Bytes(), &proposals); err != nil {
			t.Fatalf("Failed to decode proposals: %v", err)
		}
		if len(proposals) != 2 {
			t.Fatalf("Expected 2 proposals, got %d", len(proposals))
		}
		if proposals[0].PortfolioID != pf1.ID || proposals[1].PortfolioID != pf2.ID {
			t.Error("Proposals not in request order")
		}
	})

	t.Run("invalid portfolio ID returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewRebalanceHandler(testutil.NewTestRebalanceService(t, db))

		req := postJSON(t, "/api/rebalance/batch", nil, map[string]any{
			"portfolioIds": []string{"not-a-uuid"},
			"targets": []map[string]any{
				{"securityId": "RELIANCE", "targetPct": 60},
			},
		})
		rec := httptest.NewRecorder()

		handler.BatchRebalance(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})

	t.Run("malformed JSON returns 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewRebalanceHandler(testutil.NewTestRebalanceService(t, db))

		req := httptest.NewRequest(http.MethodPost, "/api/rebalance/batch", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()

		handler.BatchRebalance(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rec.Code)
		}
	})
}
