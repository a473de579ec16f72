package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedPosition is one accepted statement row. It lives only for the duration of an import.
type ParsedPosition struct {
	Ticker         string
	Name           string
	AssetClass     AssetClass
	Quantity       decimal.Decimal
	ReferencePrice decimal.Decimal
	// AveragePrice is only known for treasury rows, where it is the invested value
	// divided by the quantity.
	AveragePrice decimal.NullDecimal
	// Treasury marks rows whose prices were derived from monetary totals rather than quotes.
	Treasury bool
	Sheet    string
}

// ConsolidatedPosition holds the summed quantity of every parsed position sharing a ticker
// within one import run. All other fields come from the first position seen.
type ConsolidatedPosition struct {
	ParsedPosition
	Sources []string
}

// ParsedDividendEvent is a dividend read from a statement sheet, not yet matched to a holding.
type ParsedDividendEvent struct {
	Ticker      string
	Subtype     DividendSubtype
	Amount      decimal.Decimal
	PaymentDate time.Time
	Note        string
}

// PositionImportSummary is returned after reconciling a statement's positions.
type PositionImportSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped []string `json:"skipped"`
	Total   int      `json:"total"`
}

// DividendImportSummary is returned after a spreadsheet or feed dividend import.
type DividendImportSummary struct {
	Imported       int      `json:"imported"`
	Skipped        int      `json:"skipped"`
	NotFound       []string `json:"notFound"`
	TotalProcessed int      `json:"totalProcessed"`
	Errors         []string `json:"errors,omitempty"`
}

// PriceRefreshSummary is returned after refreshing current prices for an owner's holdings.
type PriceRefreshSummary struct {
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}
