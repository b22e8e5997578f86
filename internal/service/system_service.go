package service

import (
	"database/sql"
	"strconv"

	"github.com/pressly/goose/v3"

	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/database"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/model"
	"github.com/advisorhub/Portfolio-Advisory-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// VersionInfo returns the application version and the applied migration
// version from goose.
func (s *SystemService) VersionInfo() (model.VersionInfo, error) {
	dbVersion, err := goose.GetDBVersion(s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	return model.VersionInfo{
		AppVersion: version.Version,
		DbVersion:  strconv.FormatInt(dbVersion, 10),
	}, nil
}
