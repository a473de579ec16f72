package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// FinanceClient fetches chart data from the Yahoo Finance API. It is used for
// instruments the B3 feed does not quote.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a new Yahoo Finance client. An empty baseURL selects DefaultBaseURL.
func NewFinanceClient(baseURL string) *FinanceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// LatestPrice returns the regular market price of a symbol, falling back to the most
// recent non-null close of the last five trading days.
func (c *FinanceClient) LatestPrice(ctx context.Context, symbol string) (float64, error) {
	resp, err := c.QueryFiveDaySymbol(ctx, symbol)
	if err != nil {
		return 0, err
	}
	chart, err := c.ParseChart(resp)
	if err != nil {
		return 0, err
	}

	if chart.RegularMarketPrice > 0 {
		return chart.RegularMarketPrice, nil
	}
	for i := len(chart.Closes) - 1; i >= 0; i-- {
		if chart.Closes[i].Close > 0 {
			return chart.Closes[i].Close, nil
		}
	}
	return 0, fmt.Errorf("%w: no price for %s", apperrors.ErrSymbolNotFound, symbol)
}

// ParseChart converts a raw chart response into a PriceChart, dropping days without a close.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no results returned")
	}
	result := yahooResult.Chart.Result[0]

	chart := PriceChart{
		Symbol:             result.Meta.Symbol,
		Currency:           result.Meta.Currency,
		RegularMarketPrice: result.Meta.RegularMarketPrice,
	}

	if len(result.Indicators.Quote) == 0 {
		return chart, nil
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		chart.Closes = append(chart.Closes, DailyClose{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	return chart, nil
}

// QueryFiveDaySymbol fetches the last 5 days of daily price data for a symbol.
func (c *FinanceClient) QueryFiveDaySymbol(ctx context.Context, symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))
	result, err := c.queryYahoo(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return result, nil
}

// queryYahoo executes a request against the chart API. The browser User-Agent is
// required; Yahoo rejects the default Go client string.
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, fmt.Errorf("yahoo returned status %d: %w", resp.StatusCode, err)
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", response.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return response, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	return response, nil
}
