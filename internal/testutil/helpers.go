package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/repository"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/service"
)

// MakeID returns a fresh UUID string.
func MakeID() string {
	return uuid.New().String()
}

// Dec parses a decimal literal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// NewTestImportService wires an ImportService to db. feed may be nil.
func NewTestImportService(t *testing.T, db *sql.DB, feed service.MarketFeed) *service.ImportService {
	t.Helper()
	return service.NewImportService(
		repository.NewHoldingRepository(db),
		repository.NewDividendRepository(db),
		feed,
		zerolog.Nop(),
	)
}

// NewTestPriceService wires a PriceService to db. Either source may be nil.
func NewTestPriceService(t *testing.T, db *sql.DB, feed service.MarketFeed, fallback service.PriceSource) *service.PriceService {
	t.Helper()
	return service.NewPriceService(repository.NewHoldingRepository(db), feed, fallback, zerolog.Nop())
}

// NewTestHoldingService wires a HoldingService to db.
func NewTestHoldingService(t *testing.T, db *sql.DB) *service.HoldingService {
	t.Helper()
	return service.NewHoldingService(repository.NewHoldingRepository(db), repository.NewDividendRepository(db))
}

// NewTestSystemService wires a SystemService to db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()
	return service.NewSystemService(db)
}
