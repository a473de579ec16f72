package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetClass identifies the statement sheet family an instrument was imported from.
type AssetClass string

const (
	AssetClassEquity        AssetClass = "EQUITY"
	AssetClassReitLocal     AssetClass = "REIT_LOCAL"
	AssetClassETF           AssetClass = "ETF"
	AssetClassForeignEquity AssetClass = "FOREIGN_EQUITY"
	AssetClassTreasury      AssetClass = "TREASURY"
)

// Valid reports whether c is one of the known asset classes.
func (c AssetClass) Valid() bool {
	switch c {
	case AssetClassEquity, AssetClassReitLocal, AssetClassETF, AssetClassForeignEquity, AssetClassTreasury:
		return true
	}
	return false
}

// Holding represents a persisted position: how much of one instrument one owner holds.
// The (OwnerID, Ticker) pair is unique.
type Holding struct {
	ID           string              `json:"id"`
	OwnerID      string              `json:"ownerId"`
	Ticker       string              `json:"ticker"`
	Name         string              `json:"name"`
	AssetClass   AssetClass          `json:"assetClass"`
	Quantity     decimal.Decimal     `json:"quantity"`
	AveragePrice decimal.Decimal     `json:"averagePrice"`
	CurrentPrice decimal.NullDecimal `json:"currentPrice"`
	Sector       string              `json:"sector,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
}

// NormalizeTicker upper-cases and trims a ticker. Every ticker is passed through
// this before it is compared or stored.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
