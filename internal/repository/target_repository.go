package repository

import (
	"database/sql"
	"fmt"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
)

// TargetRepository provides data access methods for the target_allocation table.
type TargetRepository struct {
	db *sql.DB
}

// NewTargetRepository creates a new TargetRepository with the provided database connection.
func NewTargetRepository(db *sql.DB) *TargetRepository {
	return &TargetRepository{db: db}
}

// GetTargets retrieves the target allocation for one portfolio, ordered by
// target weight descending.
func (r *TargetRepository) GetTargets(portfolioID string) ([]model.TargetAllocation, error) {
	query := `
		SELECT security_id, target_pct, asset_class
		FROM target_allocation
		WHERE portfolio_id = ?
		ORDER BY target_pct DESC
	`

	rows, err := r.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query target_allocation table: %w", err)
	}
	defer rows.Close()

	targets := []model.TargetAllocation{}
	for rows.Next() {
		var t model.TargetAllocation
		var assetClass sql.NullString

		if err := rows.Scan(&t.SecurityID, &t.TargetPct, &assetClass); err != nil {
			return nil, fmt.Errorf("failed to scan target_allocation table results: %w", err)
		}
		t.AssetClass = assetClass.String
		targets = append(targets, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating target_allocation table: %w", err)
	}

	return targets, nil
}
