package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/brapi"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/yahoo"
)

// MockFeed is an in-memory service.MarketFeed. Only quotes for requested symbols
// are returned.
type MockFeed struct {
	mu sync.Mutex

	// QuoteData maps a symbol to the quote returned for it.
	QuoteData map[string]brapi.Quote
	// MockError is returned by every call when set.
	MockError error
	// Requests records the symbols of every call.
	Requests [][]string
}

// NewMockFeed creates an empty MockFeed.
func NewMockFeed() *MockFeed {
	return &MockFeed{QuoteData: make(map[string]brapi.Quote)}
}

// WithPrice registers a market price for symbol.
func (m *MockFeed) WithPrice(symbol string, price float64) *MockFeed {
	q := m.QuoteData[symbol]
	q.Symbol = symbol
	q.RegularMarketPrice = price
	m.QuoteData[symbol] = q
	return m
}

// WithDividend appends a cash dividend to symbol's history.
func (m *MockFeed) WithDividend(symbol string, paymentDate time.Time, rate, label string) *MockFeed {
	q := m.QuoteData[symbol]
	q.Symbol = symbol
	if q.DividendsData == nil {
		q.DividendsData = &brapi.DividendsData{}
	}
	q.DividendsData.CashDividends = append(q.DividendsData.CashDividends, brapi.CashDividend{
		PaymentDate: paymentDate.Format(time.RFC3339),
		Rate:        brapi.FlexNumber(rate),
		Label:       label,
	})
	m.QuoteData[symbol] = q
	return m
}

// WithError configures the mock to fail every call with err.
func (m *MockFeed) WithError(err error) *MockFeed {
	m.MockError = err
	return m
}

// Quotes returns the registered quotes for symbols.
func (m *MockFeed) Quotes(_ context.Context, symbols []string) ([]brapi.Quote, error) {
	return m.lookup(symbols)
}

// DividendHistory returns the registered quotes, dividends included, for symbols.
func (m *MockFeed) DividendHistory(_ context.Context, symbols []string) ([]brapi.Quote, error) {
	return m.lookup(symbols)
}

func (m *MockFeed) lookup(symbols []string) ([]brapi.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Requests = append(m.Requests, append([]string(nil), symbols...))
	if m.MockError != nil {
		return nil, m.MockError
	}
	quotes := []brapi.Quote{}
	for _, s := range symbols {
		if q, ok := m.QuoteData[s]; ok {
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

// MockPriceSource is an in-memory service.PriceSource.
type MockPriceSource struct {
	Prices    map[string]float64
	MockError error
	Calls     []string
}

// NewMockPriceSource creates a MockPriceSource quoting prices.
func NewMockPriceSource(prices map[string]float64) *MockPriceSource {
	return &MockPriceSource{Prices: prices}
}

// LatestPrice returns the registered price, or an error for unknown symbols.
func (m *MockPriceSource) LatestPrice(_ context.Context, symbol string) (float64, error) {
	m.Calls = append(m.Calls, symbol)
	if m.MockError != nil {
		return 0, m.MockError
	}
	price, ok := m.Prices[symbol]
	if !ok {
		return 0, errUnknownSymbol(symbol)
	}
	return price, nil
}

type errUnknownSymbol string

func (e errUnknownSymbol) Error() string { return "unknown symbol " + string(e) }

// CreateMockYahooResponse creates a chart response for symbol with one close per entry of
// closes, the last one dated yesterday. A nil entry is a day without trading.
func CreateMockYahooResponse(symbol string, marketPrice float64, closes ...*float64) yahoo.Response {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	timestamps := make([]int64, len(closes))
	for i := range closes {
		timestamps[i] = yesterday.AddDate(0, 0, i-len(closes)+1).Unix()
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:             symbol,
						Currency:           "USD",
						ExchangeName:       "NMS",
						LongName:           "Test Inc.",
						ShortName:          symbol,
						RegularMarketPrice: marketPrice,
					},
					Timestamp: timestamps,
					Indicators: yahoo.Indicators{
						Quote: []yahoo.Quote{{Close: closes}},
					},
				},
			},
		},
	}
}

// F returns a pointer to f, for building chart close series.
func F(f float64) *float64 {
	return &f
}
