package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// PositionRepository provides data access methods for the position table.
// Positions are current-holding snapshots: quantity, average cost, and the
// latest known price per security.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// GetPositions retrieves position snapshots, optionally filtered by
// portfolio, ordered by market value descending.
func (r *PositionRepository) GetPositions(portfolioID string) ([]model.Position, error) {
	query := `
		SELECT id, portfolio_id, security_id, security_name, quantity,
		       average_cost, current_price, market_value, purchase_date,
		       last_price_update
		FROM position
	`

	var args []any
	if portfolioID != "" {
		query += ` WHERE portfolio_id = ?`
		args = append(args, portfolioID)
	}
	query += ` ORDER BY market_value DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	positions := []model.Position{}
	for rows.Next() {
		var p model.Position
		var securityName, purchaseDateStr, lastUpdateStr sql.NullString

		err := rows.Scan(
			&p.ID,
			&p.PortfolioID,
			&p.SecurityID,
			&securityName,
			&p.Quantity,
			&p.AverageCost,
			&p.CurrentPrice,
			&p.MarketValue,
			&purchaseDateStr,
			&lastUpdateStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position table results: %w", err)
		}

		p.SecurityName = securityName.String
		p.PurchaseDate, err = ParseNullableTime(purchaseDateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse purchase date: %w", err)
		}
		p.LastPriceUpdate, err = ParseNullableTime(lastUpdateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last price update: %w", err)
		}

		positions = append(positions, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return positions, nil
}

// UpdatePrice sets the current price for one position and refreshes its
// market value and last update timestamp.
func (r *PositionRepository) UpdatePrice(positionID string, price float64, at time.Time) error {
	query := `
		UPDATE position
		SET current_price = ?,
		    market_value = quantity * ?,
		    last_price_update = ?
		WHERE id = ?
	`

	_, err := r.db.Exec(query, price, price, at.UTC().Format(time.RFC3339), positionID)
	if err != nil {
		return fmt.Errorf("failed to update position price: %w", err)
	}

	return nil
}
