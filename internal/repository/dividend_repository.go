package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
)

// DividendRepository provides data access methods for the dividend_record table.
type DividendRepository struct {
	db *sql.DB
}

// NewDividendRepository creates a new DividendRepository with the provided database connection.
func NewDividendRepository(db *sql.DB) *DividendRepository {
	return &DividendRepository{db: db}
}

// CreateDividendIfAbsent inserts rec unless a record matching key already exists.
// The lookup and the insert share one transaction, and the statement key is also a unique
// index, so a concurrent duplicate surfaces as "already exists" rather than as an error.
//
// Returns true when rec was inserted. rec.ID and rec.CreatedAt are only set in that case.
func (s *DividendRepository) CreateDividendIfAbsent(ctx context.Context, rec *model.DividendRecord, key model.DividendKey) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	exists, err := dividendExists(ctx, tx, key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	id := uuid.New().String()
	createdAt := time.Now().UTC().Truncate(time.Second)

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dividend_record (id, owner_id, holding_id, subtype, amount, payment_date, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		rec.OwnerID,
		rec.HoldingID,
		string(rec.Subtype),
		rec.Amount.String(),
		formatDate(rec.PaymentDate),
		rec.Note,
		formatTimestamp(createdAt),
	)
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert dividend: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to commit dividend: %w", err)
	}

	rec.ID = id
	rec.CreatedAt = createdAt
	return true, nil
}

func dividendExists(ctx context.Context, tx *sql.Tx, key model.DividendKey) (bool, error) {
	query := `
		SELECT COUNT(*)
		FROM dividend_record
		WHERE owner_id = ? AND holding_id = ? AND payment_date = ? AND subtype = ?`
	args := []any{key.OwnerID, key.HoldingID, formatDate(key.PaymentDate), string(key.Subtype)}

	if key.IncludeAmount {
		query += " AND amount = ?"
		args = append(args, key.Amount.String())
	}

	var count int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to query dividend_record table: %w", err)
	}
	return count > 0, nil
}

// GetDividends retrieves every dividend record of an owner together with the holding's
// ticker and name, newest payment first.
func (s *DividendRepository) GetDividends(ctx context.Context, ownerID string) ([]model.DividendView, error) {
	query := `
		SELECT d.id, d.owner_id, d.holding_id, d.subtype, d.amount, d.payment_date, d.note, d.created_at,
		       h.ticker, h.name
		FROM dividend_record d
		JOIN holding h ON h.id = d.holding_id
		WHERE d.owner_id = ?
		ORDER BY d.payment_date DESC, h.ticker ASC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dividend_record table: %w", err)
	}
	defer rows.Close()

	dividends := []model.DividendView{}
	for rows.Next() {
		var (
			d                            model.DividendView
			subtype                      string
			note                         sql.NullString
			paymentDateStr, createdAtStr string
		)

		err := rows.Scan(
			&d.ID,
			&d.OwnerID,
			&d.HoldingID,
			&subtype,
			&d.Amount,
			&paymentDateStr,
			&note,
			&createdAtStr,
			&d.Ticker,
			&d.Name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dividend_record table results: %w", err)
		}

		d.Subtype = model.DividendSubtype(subtype)
		d.Note = note.String

		if d.PaymentDate, err = ParseTime(paymentDateStr); err != nil {
			return nil, err
		}
		if d.CreatedAt, err = ParseTime(createdAtStr); err != nil {
			return nil, err
		}

		dividends = append(dividends, d)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dividend_record table: %w", err)
	}

	return dividends, nil
}
