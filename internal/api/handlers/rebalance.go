package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/api/request"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/service"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/validation"
)

// RebalanceHandler handles rebalancing HTTP requests
type RebalanceHandler struct {
	rebalanceService *service.RebalanceService
}

// NewRebalanceHandler creates a new RebalanceHandler
func NewRebalanceHandler(rebalanceService *service.RebalanceService) *RebalanceHandler {
	return &RebalanceHandler{
		rebalanceService: rebalanceService,
	}
}

// Rebalance handles POST requests for a single-portfolio rebalance proposal
// against the portfolio's stored target allocation.
//
// Endpoint: POST /api/portfolio/{portfolioId}/rebalance
// Body: {"thresholdPct": 5} (optional, server default applies when zero)
func (h *RebalanceHandler) Rebalance(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")

	var req request.RebalanceRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	if err := validation.ValidateRebalance(req); err != nil {
		respondServiceError(w, err)
		return
	}

	proposal, err := h.rebalanceService.BuildProposal(portfolioID, req.ThresholdPct)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposal)
}

// BatchRebalance handles POST requests for batch rebalance proposals: many
// portfolios evaluated against one shared target set.
//
// Endpoint: POST /api/rebalance/batch
// Body: {"portfolioIds": [...], "targets": [{"securityId": ..., "targetPct": ...}], "thresholdPct": 5}
func (h *RebalanceHandler) BatchRebalance(w http.ResponseWriter, r *http.Request) {
	var req request.BatchRebalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateBatchRebalance(req); err != nil {
		respondServiceError(w, err)
		return
	}

	targets := make([]model.TargetAllocation, len(req.Targets))
	for i, t := range req.Targets {
		targets[i] = model.TargetAllocation{
			SecurityID: t.SecurityID,
			TargetPct:  t.TargetPct,
		}
	}

	proposals, err := h.rebalanceService.BatchProposals(r.Context(), req.PortfolioIDs, targets, req.ThresholdPct)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, proposals)
}
