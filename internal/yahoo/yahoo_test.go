package yahoo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/testutil"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/yahoo"
)

func serve(t *testing.T, status int, payload any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLatestPrice_MarketPrice(t *testing.T) {
	resp := testutil.CreateMockYahooResponse("AAPL", 189.5, testutil.F(185), testutil.F(187))
	client := yahoo.NewFinanceClient(serve(t, http.StatusOK, resp).URL)

	price, err := client.LatestPrice(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Equal(t, 189.5, price)
}

func TestLatestPrice_FallsBackToLastClose(t *testing.T) {
	resp := testutil.CreateMockYahooResponse("AAPL", 0, testutil.F(185), testutil.F(187), nil)
	client := yahoo.NewFinanceClient(serve(t, http.StatusOK, resp).URL)

	price, err := client.LatestPrice(context.Background(), "AAPL")

	require.NoError(t, err)
	assert.Equal(t, 187.0, price)
}

func TestLatestPrice_NoPrice(t *testing.T) {
	resp := testutil.CreateMockYahooResponse("AAPL", 0, nil, nil)
	client := yahoo.NewFinanceClient(serve(t, http.StatusOK, resp).URL)

	_, err := client.LatestPrice(context.Background(), "AAPL")

	assert.ErrorIs(t, err, apperrors.ErrSymbolNotFound)
}

func TestLatestPrice_UnknownSymbol(t *testing.T) {
	resp := yahoo.Response{Chart: yahoo.Chart{
		Error: &yahoo.Error{Code: "Not Found", Description: "No data found, symbol may be delisted"},
	}}
	client := yahoo.NewFinanceClient(serve(t, http.StatusNotFound, resp).URL)

	_, err := client.LatestPrice(context.Background(), "NOPE")

	assert.ErrorContains(t, err, "symbol may be delisted")
}

func TestParseChart(t *testing.T) {
	client := yahoo.NewFinanceClient("")
	resp := testutil.CreateMockYahooResponse("MSFT", 410, testutil.F(400), nil, testutil.F(405))

	chart, err := client.ParseChart(resp)

	require.NoError(t, err)
	assert.Equal(t, "MSFT", chart.Symbol)
	assert.Equal(t, "USD", chart.Currency)
	require.Len(t, chart.Closes, 2, "days without a close are dropped")
	assert.Equal(t, 400.0, chart.Closes[0].Close)
	assert.Equal(t, 405.0, chart.Closes[1].Close)
	assert.True(t, chart.Closes[0].Date.Before(chart.Closes[1].Date))
}

func TestParseChart_Errors(t *testing.T) {
	client := yahoo.NewFinanceClient("")

	_, err := client.ParseChart(yahoo.Response{})
	assert.Error(t, err)

	resp := testutil.CreateMockYahooResponse("MSFT", 410, testutil.F(400))
	resp.Chart.Result[0].Timestamp = append(resp.Chart.Result[0].Timestamp, 1)
	_, err = client.ParseChart(resp)
	assert.ErrorContains(t, err, "mismatched")
}
