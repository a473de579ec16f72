package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/b3"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/brapi"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
)

// feedAssetClasses are the holdings the dividend feed reports on.
var feedAssetClasses = map[model.AssetClass]bool{
	model.AssetClassEquity:    true,
	model.AssetClassReitLocal: true,
}

// DividendImporter merges statement and feed dividends into the dividend store without
// creating duplicates.
type DividendImporter struct {
	holdings  HoldingStore
	dividends DividendStore
	now       func() time.Time
	log       zerolog.Logger
}

// NewDividendImporter creates a new DividendImporter.
func NewDividendImporter(holdings HoldingStore, dividends DividendStore, log zerolog.Logger) *DividendImporter {
	return &DividendImporter{
		holdings:  holdings,
		dividends: dividends,
		now:       time.Now,
		log:       log.With().Str("component", "dividend_importer").Logger(),
	}
}

// ImportStatementEvents stores dividends read from a statement sheet. Events are matched
// to holdings by ticker; unknown tickers are listed in NotFound. An event whose
// (holding, payment date, subtype, amount) is already stored counts as skipped.
func (s *DividendImporter) ImportStatementEvents(ctx context.Context, ownerID string, events []model.ParsedDividendEvent) (*model.DividendImportSummary, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	holdings, err := s.holdings.GetHoldings(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	byTicker := holdingsByTicker(holdings)

	summary := newDividendSummary()
	summary.TotalProcessed = len(events)

	for _, ev := range events {
		ticker := model.NormalizeTicker(ev.Ticker)
		h, ok := byTicker[ticker]
		if !ok {
			summary.NotFound = appendUnique(summary.NotFound, ticker)
			continue
		}

		rec := model.DividendRecord{
			OwnerID:     ownerID,
			HoldingID:   h.ID,
			Subtype:     ev.Subtype,
			Amount:      ev.Amount,
			PaymentDate: ev.PaymentDate,
			Note:        ev.Note,
		}
		s.store(ctx, summary, ticker, &rec, rec.StatementKey())
	}

	s.log.Info().
		Str("owner", ownerID).
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Int("not_found", len(summary.NotFound)).
		Msg("statement dividends imported")
	return summary, nil
}

// ImportFeed pulls dividend history from the feed for the owner's equity and REIT holdings
// and stores every payment from the last twelve months. The amount is the per-share rate
// times the quantity currently held, rounded to cents, so the feed key leaves it out.
//
// A feed failure aborts the import; a failure storing one event is collected in Errors.
func (s *DividendImporter) ImportFeed(ctx context.Context, ownerID string, feed MarketFeed) (*model.DividendImportSummary, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	holdings, err := s.holdings.GetHoldings(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	eligible := make(map[string]model.Holding)
	symbols := []string{}
	for _, h := range holdings {
		if !feedAssetClasses[h.AssetClass] {
			continue
		}
		ticker := model.NormalizeTicker(h.Ticker)
		eligible[ticker] = h
		symbols = append(symbols, ticker)
	}

	summary := newDividendSummary()
	if len(symbols) == 0 {
		return summary, nil
	}

	quotes, err := feed.DividendHistory(ctx, symbols)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().UTC().AddDate(-1, 0, 0)
	seen := make(map[string]bool, len(quotes))

	for _, quote := range quotes {
		symbol := model.NormalizeTicker(quote.Symbol)
		h, ok := eligible[symbol]
		if !ok {
			continue
		}
		seen[symbol] = true

		if quote.DividendsData == nil {
			continue
		}
		for _, div := range quote.DividendsData.CashDividends {
			summary.TotalProcessed++
			rec, ok := s.feedRecord(ownerID, h, div, cutoff)
			if !ok {
				continue
			}
			s.store(ctx, summary, symbol, &rec, rec.FeedKey())
		}
	}

	for _, symbol := range symbols {
		if !seen[symbol] {
			summary.NotFound = appendUnique(summary.NotFound, symbol)
		}
	}

	s.log.Info().
		Str("owner", ownerID).
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Int("errors", len(summary.Errors)).
		Msg("feed dividends imported")
	return summary, nil
}

// feedRecord builds the record for one feed entry. Entries older than cutoff or with an
// unreadable date or non-positive rate are dropped.
func (s *DividendImporter) feedRecord(ownerID string, h model.Holding, div brapi.CashDividend, cutoff time.Time) (model.DividendRecord, bool) {
	paymentDate, ok := div.PaymentDay()
	if !ok || paymentDate.Before(cutoff) {
		return model.DividendRecord{}, false
	}

	rate, ok := div.Rate.Decimal()
	if !ok || !rate.IsPositive() {
		s.log.Debug().Str("ticker", h.Ticker).Str("label", div.Label).Msg("feed dividend without usable rate")
		return model.DividendRecord{}, false
	}

	return model.DividendRecord{
		OwnerID:     ownerID,
		HoldingID:   h.ID,
		Subtype:     b3.ClassifyEvent(div.Label),
		Amount:      FeedAmount(rate, h.Quantity),
		PaymentDate: paymentDate,
		Note:        fmt.Sprintf("Importado automaticamente via Brapi - R$ %s/cota", rate.StringFixed(4)),
	}, true
}

func (s *DividendImporter) store(ctx context.Context, summary *model.DividendImportSummary, ticker string, rec *model.DividendRecord, key model.DividendKey) {
	created, err := s.dividends.CreateDividendIfAbsent(ctx, rec, key)
	if err != nil {
		s.log.Warn().Err(err).Str("ticker", ticker).Msg("dividend not stored")
		summary.Skipped++
		summary.Errors = append(summary.Errors, fmt.Sprintf("%s: %v", ticker, err))
		return
	}
	if created {
		summary.Imported++
		return
	}
	summary.Skipped++
}

// FeedAmount is the cash received for a per-share rate, rounded to cents.
func FeedAmount(rate, quantity decimal.Decimal) decimal.Decimal {
	return rate.Mul(quantity).Round(2)
}

func newDividendSummary() *model.DividendImportSummary {
	return &model.DividendImportSummary{NotFound: []string{}}
}
