package service

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"strconv"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/database"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/version"
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
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application version and whether the database schema is behind
// the migrations embedded in this build.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	current, latest, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, err
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(current, 10),
		LatestDbVersion: strconv.FormatInt(latest, 10),
		Features:        maps.Clone(version.Features),
	}
	if current < latest {
		msg := fmt.Sprintf("database schema at version %d, latest is %d", current, latest)
		info.MigrationNeeded = true
		info.MigrationMessage = &msg
	}
	return info, nil
}
