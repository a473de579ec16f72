package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/repository"
)

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	// Simple creation with defaults
//	holding := testutil.NewHolding(ownerID).Build(t, db)
//
//	// Customized holding
//	holding := testutil.NewHolding(ownerID).
//	    WithTicker("MXRF11").
//	    WithAssetClass(model.AssetClassReitLocal).
//	    WithQuantity("250").
//	    Build(t, db)
type HoldingBuilder struct {
	holding model.Holding
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding(ownerID string) *HoldingBuilder {
	return &HoldingBuilder{holding: model.Holding{
		OwnerID:      ownerID,
		Ticker:       "PETR4",
		Name:         "PETROBRAS",
		AssetClass:   model.AssetClassEquity,
		Quantity:     Dec("100"),
		AveragePrice: Dec("30"),
	}}
}

// WithTicker sets the ticker.
func (b *HoldingBuilder) WithTicker(ticker string) *HoldingBuilder {
	b.holding.Ticker = ticker
	return b
}

// WithName sets the display name.
func (b *HoldingBuilder) WithName(name string) *HoldingBuilder {
	b.holding.Name = name
	return b
}

// WithAssetClass sets the asset class.
func (b *HoldingBuilder) WithAssetClass(class model.AssetClass) *HoldingBuilder {
	b.holding.AssetClass = class
	return b
}

// WithQuantity sets the quantity from a decimal string.
func (b *HoldingBuilder) WithQuantity(qty string) *HoldingBuilder {
	b.holding.Quantity = Dec(qty)
	return b
}

// WithAveragePrice sets the average price from a decimal string.
func (b *HoldingBuilder) WithAveragePrice(price string) *HoldingBuilder {
	b.holding.AveragePrice = Dec(price)
	return b
}

// WithCurrentPrice sets the current price from a decimal string.
func (b *HoldingBuilder) WithCurrentPrice(price string) *HoldingBuilder {
	b.holding.CurrentPrice = decimal.NewNullDecimal(Dec(price))
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	h := b.holding
	if err := repository.NewHoldingRepository(db).CreateHolding(context.Background(), &h); err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}
	return h
}

// DividendBuilder provides a fluent interface for creating test dividend records.
type DividendBuilder struct {
	record model.DividendRecord
}

// NewDividend creates a DividendBuilder for a holding with sensible defaults.
func NewDividend(h model.Holding) *DividendBuilder {
	return &DividendBuilder{record: model.DividendRecord{
		OwnerID:     h.OwnerID,
		HoldingID:   h.ID,
		Subtype:     model.SubtypeCashDividend,
		Amount:      Dec("10.50"),
		PaymentDate: Date(2024, time.March, 15),
		Note:        "test dividend",
	}}
}

// WithAmount sets the amount from a decimal string.
func (b *DividendBuilder) WithAmount(amount string) *DividendBuilder {
	b.record.Amount = Dec(amount)
	return b
}

// WithPaymentDate sets the payment date.
func (b *DividendBuilder) WithPaymentDate(d time.Time) *DividendBuilder {
	b.record.PaymentDate = d
	return b
}

// WithSubtype sets the subtype.
func (b *DividendBuilder) WithSubtype(subtype model.DividendSubtype) *DividendBuilder {
	b.record.Subtype = subtype
	return b
}

// Build stores the dividend record and returns it.
func (b *DividendBuilder) Build(t *testing.T, db *sql.DB) model.DividendRecord {
	t.Helper()

	rec := b.record
	created, err := repository.NewDividendRepository(db).CreateDividendIfAbsent(context.Background(), &rec, rec.StatementKey())
	if err != nil {
		t.Fatalf("Failed to create test dividend: %v", err)
	}
	if !created {
		t.Fatalf("Test dividend already exists")
	}
	return rec
}
