package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/brapi"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
)

// HoldingStore persists holdings. repository.HoldingRepository implements it.
type HoldingStore interface {
	GetHoldings(ctx context.Context, ownerID string) ([]model.Holding, error)
	GetHoldingByTicker(ctx context.Context, ownerID, ticker string) (*model.Holding, error)
	GetOwnerIDs(ctx context.Context) ([]string, error)
	CreateHolding(ctx context.Context, h *model.Holding) error
	UpdateHoldingFromImport(ctx context.Context, id string, quantity, currentPrice decimal.Decimal, name string) error
	UpdateCurrentPrice(ctx context.Context, id string, price decimal.Decimal) error
}

// DividendStore persists dividend records. repository.DividendRepository implements it.
type DividendStore interface {
	CreateDividendIfAbsent(ctx context.Context, rec *model.DividendRecord, key model.DividendKey) (bool, error)
	GetDividends(ctx context.Context, ownerID string) ([]model.DividendView, error)
}

// MarketFeed is the B3 quote and dividend-history source. brapi.Client implements it.
type MarketFeed interface {
	Quotes(ctx context.Context, symbols []string) ([]brapi.Quote, error)
	DividendHistory(ctx context.Context, symbols []string) ([]brapi.Quote, error)
}

// PriceSource quotes instruments the market feed does not cover. yahoo.FinanceClient implements it.
type PriceSource interface {
	LatestPrice(ctx context.Context, symbol string) (float64, error)
}
