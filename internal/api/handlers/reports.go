package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/costbasis"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/service"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/validation"
)

// ReportHandler handles cost-basis reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// CostBasis handles GET requests for a portfolio's cost-basis report.
//
// Endpoint: GET /api/portfolio/{portfolioId}/cost-basis
// Query parameters:
//   - method: fifo, lifo, average, or specific (optional, server default applies)
//   - oversell: truncate, warn, or error (optional, server default applies)
//   - as_of: valuation date in YYYY-MM-DD format (optional, defaults to now)
func (h *ReportHandler) CostBasis(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")
	method := r.URL.Query().Get("method")
	oversell := r.URL.Query().Get("oversell")

	if err := validation.ValidateReportQuery(method, oversell); err != nil {
		respondServiceError(w, err)
		return
	}

	asOf, err := parseAsOf(r.URL.Query().Get("as_of"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	report, err := h.reportService.GetCostBasisReport(portfolioID, method, oversell, asOf)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

// CostBasisExport handles GET requests for the capital-gains CSV download.
// Accepts the same query parameters as CostBasis.
//
// Endpoint: GET /api/portfolio/{portfolioId}/cost-basis/export
func (h *ReportHandler) CostBasisExport(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")
	method := r.URL.Query().Get("method")
	oversell := r.URL.Query().Get("oversell")

	if err := validation.ValidateReportQuery(method, oversell); err != nil {
		respondServiceError(w, err)
		return
	}

	asOf, err := parseAsOf(r.URL.Query().Get("as_of"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	csvData, err := h.reportService.ExportCapitalGains(portfolioID, method, oversell, asOf)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("capital-gains-%s-%s.csv", portfolioID, asOf.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(csvData))
}

// Harvesting handles GET requests for the tax-loss harvesting view: open
// lots with unrealized losses and the estimated tax saving from selling.
//
// Endpoint: GET /api/portfolio/{portfolioId}/harvesting
// Query parameters:
//   - method: fifo, lifo, average, or specific (optional, server default applies)
//   - as_of: valuation date in YYYY-MM-DD format (optional, defaults to now)
func (h *ReportHandler) Harvesting(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")
	method := r.URL.Query().Get("method")

	if err := validation.ValidateReportQuery(method, ""); err != nil {
		respondServiceError(w, err)
		return
	}

	asOf, err := parseAsOf(r.URL.Query().Get("as_of"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	opportunities, err := h.reportService.GetHarvestingOpportunities(portfolioID, method, asOf)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if opportunities == nil {
		opportunities = []costbasis.HarvestingOpportunity{}
	}

	respondJSON(w, http.StatusOK, opportunities)
}

// parseAsOf parses the optional as_of query parameter. Empty means now.
func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	asOf, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of date: %s", s)
	}
	return asOf, nil
}
