package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
)

// PriceService refreshes the current price of an owner's holdings. B3-listed classes are
// quoted by the market feed in one batch; foreign equities are quoted one by one by the
// fallback price source. Treasury bonds have no market quote and are left alone.
type PriceService struct {
	holdings HoldingStore
	feed     MarketFeed
	fallback PriceSource
	log      zerolog.Logger
}

// NewPriceService creates a new PriceService. Either source may be nil. Without a feed a
// refresh that has B3-listed holdings fails; without a fallback the foreign holdings are
// reported as errors.
func NewPriceService(holdings HoldingStore, feed MarketFeed, fallback PriceSource, log zerolog.Logger) *PriceService {
	return &PriceService{
		holdings: holdings,
		feed:     feed,
		fallback: fallback,
		log:      log.With().Str("component", "price_service").Logger(),
	}
}

// RefreshPrices updates the current price of every quotable holding of the owner.
// A missing quote, a failed fallback lookup or a failed store update for one holding is
// recorded in the summary and does not stop the others. A failed batch request to the
// market feed aborts the refresh before any price is written.
func (s *PriceService) RefreshPrices(ctx context.Context, ownerID string) (*model.PriceRefreshSummary, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	holdings, err := s.holdings.GetHoldings(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
	}

	summary := &model.PriceRefreshSummary{Errors: []string{}}

	var local, foreign []model.Holding
	for _, h := range holdings {
		switch h.AssetClass {
		case model.AssetClassEquity, model.AssetClassReitLocal, model.AssetClassETF:
			local = append(local, h)
		case model.AssetClassForeignEquity:
			foreign = append(foreign, h)
		}
	}

	quotes, err := s.quoteLocal(ctx, local)
	if err != nil {
		s.log.Error().Err(err).Str("owner", ownerID).Int("holdings", len(local)).Msg("market feed request failed")
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
	}

	s.applyLocal(ctx, local, quotes, summary)
	s.refreshForeign(ctx, foreign, summary)

	s.log.Info().
		Str("owner", ownerID).
		Int("updated", summary.Updated).
		Int("errors", len(summary.Errors)).
		Msg("prices refreshed")
	return summary, nil
}

// quoteLocal fetches one batch quote for the B3-listed holdings, keyed by normalized
// symbol. Quotes without a positive price are left out.
func (s *PriceService) quoteLocal(ctx context.Context, holdings []model.Holding) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(holdings))
	if len(holdings) == 0 {
		return prices, nil
	}
	if s.feed == nil {
		return nil, fmt.Errorf("%w: market feed not configured", apperrors.ErrFeedUnavailable)
	}

	symbols := make([]string, 0, len(holdings))
	for _, h := range holdings {
		symbols = append(symbols, model.NormalizeTicker(h.Ticker))
	}

	quotes, err := s.feed.Quotes(ctx, symbols)
	if err != nil {
		return nil, err
	}

	for _, q := range quotes {
		if q.RegularMarketPrice > 0 {
			prices[model.NormalizeTicker(q.Symbol)] = decimal.NewFromFloat(q.RegularMarketPrice)
		}
	}
	return prices, nil
}

func (s *PriceService) applyLocal(ctx context.Context, holdings []model.Holding, prices map[string]decimal.Decimal, summary *model.PriceRefreshSummary) {
	for _, h := range holdings {
		price, ok := prices[model.NormalizeTicker(h.Ticker)]
		if !ok {
			s.fail(summary, h.Ticker, apperrors.ErrSymbolNotFound)
			continue
		}
		s.apply(ctx, summary, h, price)
	}
}

func (s *PriceService) refreshForeign(ctx context.Context, holdings []model.Holding, summary *model.PriceRefreshSummary) {
	for _, h := range holdings {
		if s.fallback == nil {
			s.fail(summary, h.Ticker, apperrors.ErrFeedUnavailable)
			continue
		}
		price, err := s.fallback.LatestPrice(ctx, model.NormalizeTicker(h.Ticker))
		if err != nil {
			s.fail(summary, h.Ticker, err)
			continue
		}
		if price <= 0 {
			s.fail(summary, h.Ticker, apperrors.ErrSymbolNotFound)
			continue
		}
		s.apply(ctx, summary, h, decimal.NewFromFloat(price))
	}
}

func (s *PriceService) apply(ctx context.Context, summary *model.PriceRefreshSummary, h model.Holding, price decimal.Decimal) {
	if err := s.holdings.UpdateCurrentPrice(ctx, h.ID, price); err != nil {
		s.fail(summary, h.Ticker, err)
		return
	}
	summary.Updated++
}

func (s *PriceService) fail(summary *model.PriceRefreshSummary, ticker string, err error) {
	s.log.Warn().Err(err).Str("ticker", ticker).Msg("price not refreshed")
	summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", ticker, err))
}
