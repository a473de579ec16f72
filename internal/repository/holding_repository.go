package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
)

const holdingColumns = `id, owner_id, ticker, name, asset_class, quantity, average_price,
current_price, sector, created_at, updated_at`

// HoldingRepository provides data access methods for the holding table.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// GetHoldings retrieves every holding of an owner, most recently created first.
// Returns an empty slice if the owner holds nothing.
func (s *HoldingRepository) GetHoldings(ctx context.Context, ownerID string) ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + `
		FROM holding
		WHERE owner_id = ?
		ORDER BY created_at DESC, ticker ASC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// GetHoldingByTicker retrieves one holding by its (owner, ticker) pair.
// Returns apperrors.ErrHoldingNotFound when the owner does not hold the ticker.
func (s *HoldingRepository) GetHoldingByTicker(ctx context.Context, ownerID, ticker string) (*model.Holding, error) {
	query := `SELECT ` + holdingColumns + `
		FROM holding
		WHERE owner_id = ? AND ticker = ?`

	h, err := scanHolding(s.db.QueryRowContext(ctx, query, ownerID, model.NormalizeTicker(ticker)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// GetOwnerIDs returns every owner that holds at least one instrument.
func (s *HoldingRepository) GetOwnerIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT owner_id FROM holding ORDER BY owner_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding owners: %w", err)
	}
	defer rows.Close()

	owners := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan holding owner: %w", err)
		}
		owners = append(owners, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding owners: %w", err)
	}
	return owners, nil
}

// CreateHolding inserts h, assigning its ID and timestamps.
// Returns apperrors.ErrDuplicateEntry when the owner already holds the ticker.
func (s *HoldingRepository) CreateHolding(ctx context.Context, h *model.Holding) error {
	now := time.Now().UTC().Truncate(time.Second)
	h.ID = uuid.New().String()
	h.Ticker = model.NormalizeTicker(h.Ticker)
	h.CreatedAt = now
	h.UpdatedAt = now

	var sector sql.NullString
	if h.Sector != "" {
		sector = sql.NullString{String: h.Sector, Valid: true}
	}

	query := `
		INSERT INTO holding (` + holdingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		h.ID,
		h.OwnerID,
		h.Ticker,
		h.Name,
		string(h.AssetClass),
		h.Quantity.String(),
		h.AveragePrice.String(),
		h.CurrentPrice,
		sector,
		formatTimestamp(h.CreatedAt),
		formatTimestamp(h.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: holding %s", apperrors.ErrDuplicateEntry, h.Ticker)
	}
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

// UpdateHoldingFromImport overwrites the fields a statement import owns: quantity,
// current price and name. The average price is left alone.
func (s *HoldingRepository) UpdateHoldingFromImport(ctx context.Context, id string, quantity, currentPrice decimal.Decimal, name string) error {
	query := `
		UPDATE holding
		SET quantity = ?, current_price = ?, name = ?, updated_at = ?
		WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query,
		quantity.String(),
		currentPrice.String(),
		name,
		formatTimestamp(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}
	return requireAffected(result)
}

// UpdateCurrentPrice sets the latest known market price of a holding.
func (s *HoldingRepository) UpdateCurrentPrice(ctx context.Context, id string, price decimal.Decimal) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE holding SET current_price = ?, updated_at = ? WHERE id = ?`,
		price.String(),
		formatTimestamp(time.Now()),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding price: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrHoldingNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (model.Holding, error) {
	var (
		h                          model.Holding
		assetClass                 string
		sector                     sql.NullString
		createdAtStr, updatedAtStr string
	)

	err := row.Scan(
		&h.ID,
		&h.OwnerID,
		&h.Ticker,
		&h.Name,
		&assetClass,
		&h.Quantity,
		&h.AveragePrice,
		&h.CurrentPrice,
		&sector,
		&createdAtStr,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, err
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to scan holding table results: %w", err)
	}

	h.AssetClass = model.AssetClass(assetClass)
	h.Sector = sector.String

	if h.CreatedAt, err = ParseTime(createdAtStr); err != nil {
		return model.Holding{}, err
	}
	if h.UpdatedAt, err = ParseTime(updatedAtStr); err != nil {
		return model.Holding{}, err
	}
	return h, nil
}
