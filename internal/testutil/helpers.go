package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/quotes"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/rebalance"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/repository"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/service"
)

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewPortfolioRepository(db),
		repository.NewPositionRepository(db),
	)
}

func NewTestReportService(t *testing.T, db *sql.DB) *service.ReportService {
	t.Helper()

	return service.NewReportService(
		repository.NewPortfolioRepository(db),
		repository.NewTransactionRepository(db),
		repository.NewPositionRepository(db),
		"fifo",
		"truncate",
		0.10,
		0.15,
	)
}

func NewTestRebalanceService(t *testing.T, db *sql.DB) *service.RebalanceService {
	t.Helper()

	return service.NewRebalanceService(
		repository.NewPortfolioRepository(db),
		repository.NewPositionRepository(db),
		repository.NewTargetRepository(db),
		rebalance.Options{},
		5,
	)
}

// NewTestQuoteService creates a QuoteService backed by the given quote
// client, usually a MockQuoteClient. Logging is discarded.
func NewTestQuoteService(t *testing.T, db *sql.DB, client quotes.Client) *service.QuoteService {
	t.Helper()

	return service.NewQuoteService(
		repository.NewPositionRepository(db),
		client,
		zerolog.Nop(),
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakePortfolioName generates a unique portfolio name for testing.
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + uuid.New().String()[:6]
}
