package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/api"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/config"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/database"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/logging"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/quotes"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/rebalance"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/repository"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	// Open database connection and apply migrations
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	logger.Info().Str("path", cfg.Database.Path).Msg("connected to database")

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	targetRepo := repository.NewTargetRepository(db)

	settingsRepo, err := repository.NewSettingsRepository(db, cfg.Quotes.FernetKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize settings repository")
	}

	// The provider token lives encrypted in the database. A token passed via
	// environment is stored (encrypted) on startup, then read back like any
	// other deploy.
	providerToken := ""
	if cfg.Quotes.FernetKey != "" {
		if envToken := os.Getenv("QUOTE_PROVIDER_TOKEN"); envToken != "" {
			if err := settingsRepo.SetSecret(repository.SettingQuoteProviderToken, envToken); err != nil {
				logger.Fatal().Err(err).Msg("failed to store provider token")
			}
		}
		token, err := settingsRepo.GetSecret(repository.SettingQuoteProviderToken)
		if err == nil {
			providerToken = token
		} else {
			logger.Warn().Err(err).Msg("no provider token available, quotes run unauthenticated")
		}
	}

	quoteClient := quotes.NewChartClient(cfg.Quotes.BaseURL, providerToken)

	// Create services
	engineOpts := rebalance.Options{
		TaxRates: rebalance.TaxRates{
			LongTerm:  cfg.Engine.LongTermTaxRate,
			ShortTerm: cfg.Engine.ShortTermTaxRate,
		},
		CostModel: rebalance.CostModel{
			BrokerageRateBps: cfg.Engine.BrokerageRateBps,
			STTRate:          cfg.Engine.STTRate,
			GSTRate:          cfg.Engine.GSTRate,
		},
	}

	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(portfolioRepo, positionRepo)
	reportService := service.NewReportService(
		portfolioRepo,
		transactionRepo,
		positionRepo,
		cfg.Engine.DefaultMethod,
		cfg.Engine.OversellPolicy,
		cfg.Engine.LongTermTaxRate,
		cfg.Engine.ShortTermTaxRate,
	)
	rebalanceService := service.NewRebalanceService(
		portfolioRepo,
		positionRepo,
		targetRepo,
		engineOpts,
		cfg.Engine.DefaultThresholdPct,
	)
	quoteService := service.NewQuoteService(positionRepo, quoteClient, logger)

	// Scheduled jobs: nightly price refresh, hourly advisory drift check
	scheduler := cron.New()
	if cfg.Jobs.QuoteRefreshSpec != "" {
		_, err := scheduler.AddFunc(cfg.Jobs.QuoteRefreshSpec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if _, err := quoteService.RefreshPrices(ctx); err != nil {
				logger.Error().Err(err).Msg("scheduled price refresh failed")
			}
		})
		if err != nil {
			logger.Fatal().Err(err).Str("spec", cfg.Jobs.QuoteRefreshSpec).Msg("invalid quote refresh schedule")
		}
	}
	if cfg.Jobs.DriftCheckSpec != "" {
		_, err := scheduler.AddFunc(cfg.Jobs.DriftCheckSpec, func() {
			alerts, err := rebalanceService.CheckDrift(0)
			if err != nil {
				logger.Error().Err(err).Msg("scheduled drift check failed")
				return
			}
			for _, alert := range alerts {
				logger.Warn().
					Str("portfolio_id", alert.PortfolioID).
					Str("portfolio_name", alert.PortfolioName).
					Int("breaches", len(alert.Breaches)).
					Msg("portfolio drifted past threshold")
			}
		})
		if err != nil {
			logger.Fatal().Err(err).Str("spec", cfg.Jobs.DriftCheckSpec).Msg("invalid drift check schedule")
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(api.Services{
		System:    systemService,
		Portfolio: portfolioService,
		Report:    reportService,
		Rebalance: rebalanceService,
	}, cfg, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
