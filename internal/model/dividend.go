package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DividendSubtype classifies a cash event paid by a holding.
type DividendSubtype string

const (
	SubtypeCashDividend   DividendSubtype = "CASH_DIVIDEND"
	SubtypeEquityInterest DividendSubtype = "EQUITY_INTEREST" // juros sobre capital próprio
	SubtypeYield          DividendSubtype = "YIELD"           // rendimento (REIT distributions)
)

// DividendRecord represents a persisted dividend payment. Records are created once per
// natural key and never mutated by an import.
type DividendRecord struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	HoldingID   string          `json:"holdingId"`
	Subtype     DividendSubtype `json:"subtype"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Note        string          `json:"note"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// DividendView is a dividend record joined with its holding's ticker and name.
type DividendView struct {
	DividendRecord
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// DividendKey is the natural key used to detect an already imported dividend.
// IncludeAmount selects the strict form used by spreadsheet imports, where a statement
// can repeat subtype and date for different lots.
type DividendKey struct {
	OwnerID       string
	HoldingID     string
	PaymentDate   time.Time
	Subtype       DividendSubtype
	Amount        decimal.Decimal
	IncludeAmount bool
}

// StatementKey returns the key a spreadsheet import deduplicates on.
func (d DividendRecord) StatementKey() DividendKey {
	return DividendKey{
		OwnerID:       d.OwnerID,
		HoldingID:     d.HoldingID,
		PaymentDate:   d.PaymentDate,
		Subtype:       d.Subtype,
		Amount:        d.Amount,
		IncludeAmount: true,
	}
}

// FeedKey returns the key a feed import deduplicates on. The amount is derived from the
// quantity held at import time, so it is not part of the identity.
func (d DividendRecord) FeedKey() DividendKey {
	key := d.StatementKey()
	key.IncludeAmount = false
	return key
}
