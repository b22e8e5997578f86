package repository

import (
	"database/sql"
	"fmt"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// TransactionRepository provides data access methods for the transaction table.
// Transactions are the immutable input to all cost-basis calculations.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// GetTransactions retrieves all transactions, sorted ascending by trade
// date. When portfolioID is non-empty, only that portfolio's transactions
// are returned. The ascending order is relied on by the lot engine for
// same-date tie-breaking.
func (r *TransactionRepository) GetTransactions(portfolioID string) ([]model.Transaction, error) {
	query := `
		SELECT id, portfolio_id, security_id, type, quantity, price,
		       total_amount, trade_date, settlement_date, notes, created_at
		FROM "transaction"
	`

	var args []any
	if portfolioID != "" {
		query += ` WHERE portfolio_id = ?`
		args = append(args, portfolioID)
	}
	query += ` ORDER BY trade_date ASC, created_at ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		var tradeDateStr, createdAtStr string
		var settlementStr, notes sql.NullString

		err := rows.Scan(
			&t.ID,
			&t.PortfolioID,
			&t.SecurityID,
			&t.Type,
			&t.Quantity,
			&t.Price,
			&t.TotalAmount,
			&tradeDateStr,
			&settlementStr,
			&notes,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}

		t.TradeDate, err = ParseTime(tradeDateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse trade date: %w", err)
		}
		t.SettlementDate, err = ParseNullableTime(settlementStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse settlement date: %w", err)
		}
		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created at: %w", err)
		}
		t.Notes = notes.String

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}
