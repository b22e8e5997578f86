package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/api/handlers"
	custommiddleware "github.com/advisorhub/Portfolio-Advisory-Backend/internal/api/middleware"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/config"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/service"
)

// Services bundles the service dependencies of the HTTP API.
type Services struct {
	System    *service.SystemService
	Portfolio *service.PortfolioService
	Report    *service.ReportService
	Rebalance *service.RebalanceService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svcs Services, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svcs.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svcs.Portfolio)
			reportHandler := handlers.NewReportHandler(svcs.Report)
			rebalanceHandler := handlers.NewRebalanceHandler(svcs.Rebalance)

			r.Get("/", portfolioHandler.Portfolios)

			r.Route("/{portfolioId}", func(r chi.Router) {
				r.Use(custommiddleware.ValidatePortfolioIDMiddleware)
				r.Get("/positions", portfolioHandler.Positions)
				r.Get("/cost-basis", reportHandler.CostBasis)
				r.Get("/cost-basis/export", reportHandler.CostBasisExport)
				r.Get("/harvesting", reportHandler.Harvesting)
				r.Post("/rebalance", rebalanceHandler.Rebalance)
			})
		})

		r.Route("/rebalance", func(r chi.Router) {
			rebalanceHandler := handlers.NewRebalanceHandler(svcs.Rebalance)
			r.Post("/batch", rebalanceHandler.BatchRebalance)
		})
	})

	return r
}
