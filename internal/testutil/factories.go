package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    Archived().
//	    Build(t, db)
type PortfolioBuilder struct {
	ID          string
	Name        string
	Description string
	IsArchived  bool
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		Name:        MakePortfolioName("Test Portfolio"),
		Description: "Test description",
		IsArchived:  false,
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// Archived marks the portfolio as archived.
func (b *PortfolioBuilder) Archived() *PortfolioBuilder {
	b.IsArchived = true
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, name, description, is_archived)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Description, b.IsArchived)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		IsArchived:  b.IsArchived,
	}
}

// CreatePortfolio creates a portfolio with the given name and default values.
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	testutil.NewTransaction(portfolio.ID, "RELIANCE").
//	    Buy(100, 2500).
//	    On("2023-03-15").
//	    Build(t, db)
type TransactionBuilder struct {
	ID          string
	PortfolioID string
	SecurityID  string
	Type        string
	Quantity    float64
	Price       float64
	TotalAmount float64
	TradeDate   string
}

// NewTransaction creates a TransactionBuilder for the given portfolio and security.
func NewTransaction(portfolioID, securityID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		SecurityID:  securityID,
		Type:        model.TransactionBuy,
		Quantity:    100,
		Price:       10,
		TradeDate:   "2024-01-01",
	}
}

// Buy marks the transaction as a buy of the given quantity at the given price.
func (b *TransactionBuilder) Buy(quantity, price float64) *TransactionBuilder {
	b.Type = model.TransactionBuy
	b.Quantity = quantity
	b.Price = price
	return b
}

// Sell marks the transaction as a sell of the given quantity at the given price.
func (b *TransactionBuilder) Sell(quantity, price float64) *TransactionBuilder {
	b.Type = model.TransactionSell
	b.Quantity = quantity
	b.Price = price
	return b
}

// On sets the trade date ("2006-01-02" format).
func (b *TransactionBuilder) On(date string) *TransactionBuilder {
	b.TradeDate = date
	return b
}

// WithTotalAmount overrides the derived total amount (quantity * price).
func (b *TransactionBuilder) WithTotalAmount(total float64) *TransactionBuilder {
	b.TotalAmount = total
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	total := b.TotalAmount
	if total == 0 {
		total = b.Quantity * b.Price
	}

	query := `
		INSERT INTO "transaction" (id, portfolio_id, security_id, type, quantity, price, total_amount, trade_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.SecurityID, b.Type, b.Quantity, b.Price, total, b.TradeDate)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	tradeDate, err := time.Parse("2006-01-02", b.TradeDate)
	if err != nil {
		t.Fatalf("Invalid trade date %q: %v", b.TradeDate, err)
	}

	return model.Transaction{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		SecurityID:  b.SecurityID,
		Type:        b.Type,
		Quantity:    b.Quantity,
		Price:       b.Price,
		TotalAmount: total,
		TradeDate:   tradeDate,
	}
}

// PositionBuilder provides a fluent interface for creating test position snapshots.
type PositionBuilder struct {
	ID           string
	PortfolioID  string
	SecurityID   string
	SecurityName string
	Quantity     float64
	AverageCost  float64
	CurrentPrice float64
	PurchaseDate string
}

// NewPosition creates a PositionBuilder for the given portfolio and security.
func NewPosition(portfolioID, securityID string) *PositionBuilder {
	return &PositionBuilder{
		ID:           MakeID(),
		PortfolioID:  portfolioID,
		SecurityID:   securityID,
		SecurityName: securityID,
		Quantity:     100,
		AverageCost:  10,
		CurrentPrice: 10,
	}
}

// Holding sets quantity, average cost, and current price in one call.
func (b *PositionBuilder) Holding(quantity, averageCost, currentPrice float64) *PositionBuilder {
	b.Quantity = quantity
	b.AverageCost = averageCost
	b.CurrentPrice = currentPrice
	return b
}

// BoughtOn sets the purchase date ("2006-01-02" format).
func (b *PositionBuilder) BoughtOn(date string) *PositionBuilder {
	b.PurchaseDate = date
	return b
}

// Build creates the position in the database and returns it.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	marketValue := b.Quantity * b.CurrentPrice

	var purchaseDate any
	if b.PurchaseDate != "" {
		purchaseDate = b.PurchaseDate
	}

	query := `
		INSERT INTO position (id, portfolio_id, security_id, security_name, quantity, average_cost, current_price, market_value, purchase_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.SecurityID, b.SecurityName, b.Quantity, b.AverageCost, b.CurrentPrice, marketValue, purchaseDate)
	if err != nil {
		t.Fatalf("Failed to create test position: %v", err)
	}

	position := model.Position{
		ID:           b.ID,
		PortfolioID:  b.PortfolioID,
		SecurityID:   b.SecurityID,
		SecurityName: b.SecurityName,
		Quantity:     b.Quantity,
		AverageCost:  b.AverageCost,
		CurrentPrice: b.CurrentPrice,
		MarketValue:  marketValue,
	}
	if b.PurchaseDate != "" {
		parsed, err := time.Parse("2006-01-02", b.PurchaseDate)
		if err != nil {
			t.Fatalf("Invalid purchase date %q: %v", b.PurchaseDate, err)
		}
		position.PurchaseDate = &parsed
	}

	return position
}

// CreateTarget creates a target allocation row for a portfolio.
//
// Example usage:
//
//	testutil.CreateTarget(t, db, portfolio.ID, "RELIANCE", 50)
func CreateTarget(t *testing.T, db *sql.DB, portfolioID, securityID string, targetPct float64) model.TargetAllocation {
	t.Helper()

	query := `
		INSERT INTO target_allocation (id, portfolio_id, security_id, target_pct)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, MakeID(), portfolioID, securityID, targetPct)
	if err != nil {
		t.Fatalf("Failed to create test target allocation: %v", err)
	}

	return model.TargetAllocation{
		SecurityID: securityID,
		TargetPct:  targetPct,
	}
}
