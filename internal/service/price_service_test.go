package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/repository"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/testutil"
)

func currentPrice(t *testing.T, repo *repository.HoldingRepository, owner, ticker string) string {
	t.Helper()
	h, err := repo.GetHoldingByTicker(context.Background(), owner, ticker)
	require.NoError(t, err)
	if !h.CurrentPrice.Valid {
		return ""
	}
	return h.CurrentPrice.Decimal.String()
}

func TestPriceService_RefreshPrices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)
	owner := testutil.MakeID()
	testutil.NewHolding(owner).WithTicker("PETR4").Build(t, db)
	testutil.NewHolding(owner).WithTicker("MXRF11").WithAssetClass(model.AssetClassReitLocal).Build(t, db)
	testutil.NewHolding(owner).WithTicker("BOVA11").WithAssetClass(model.AssetClassETF).Build(t, db)
	testutil.NewHolding(owner).WithTicker("AAPL").WithAssetClass(model.AssetClassForeignEquity).Build(t, db)
	testutil.NewHolding(owner).WithTicker("TES-SELIC-").WithAssetClass(model.AssetClassTreasury).WithCurrentPrice("15000").Build(t, db)

	feed := testutil.NewMockFeed().
		WithPrice("PETR4", 38.25).
		WithPrice("MXRF11", 10.1).
		WithPrice("BOVA11", 121.5)
	fallback := testutil.NewMockPriceSource(map[string]float64{"AAPL": 190.12})
	svc := testutil.NewTestPriceService(t, db, feed, fallback)

	summary, err := svc.RefreshPrices(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Updated)
	assert.Empty(t, summary.Errors)

	require.Len(t, feed.Requests, 1, "B3 classes are quoted in one batch")
	assert.ElementsMatch(t, []string{"PETR4", "MXRF11", "BOVA11"}, feed.Requests[0])
	assert.Equal(t, []string{"AAPL"}, fallback.Calls)

	assert.Equal(t, "38.25", currentPrice(t, repo, owner, "PETR4"))
	assert.Equal(t, "121.5", currentPrice(t, repo, owner, "BOVA11"))
	assert.Equal(t, "190.12", currentPrice(t, repo, owner, "AAPL"))
	assert.Equal(t, "15000", currentPrice(t, repo, owner, "TES-SELIC-"), "treasury is never quoted")
}

func TestPriceService_RefreshPrices_PartialFailures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.MakeID()
	testutil.NewHolding(owner).WithTicker("PETR4").Build(t, db)
	testutil.NewHolding(owner).WithTicker("OIBR3").Build(t, db)
	testutil.NewHolding(owner).WithTicker("VALE3").Build(t, db)
	testutil.NewHolding(owner).WithTicker("MSFT").WithAssetClass(model.AssetClassForeignEquity).Build(t, db)

	feed := testutil.NewMockFeed().WithPrice("PETR4", 38).WithPrice("VALE3", 0)
	svc := testutil.NewTestPriceService(t, db, feed, testutil.NewMockPriceSource(map[string]float64{}))

	summary, err := svc.RefreshPrices(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Updated)
	require.Len(t, summary.Errors, 3)
	assert.Contains(t, summary.Errors, "OIBR3: "+apperrors.ErrSymbolNotFound.Error())
	assert.Contains(t, summary.Errors, "VALE3: "+apperrors.ErrSymbolNotFound.Error())
	assert.Contains(t, summary.Errors, "MSFT: unknown symbol MSFT")
}

func TestPriceService_RefreshPrices_FeedFailureAborts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)
	owner := testutil.MakeID()
	testutil.NewHolding(owner).WithTicker("PETR4").WithCurrentPrice("30").Build(t, db)
	testutil.NewHolding(owner).WithTicker("VALE3").Build(t, db)
	testutil.NewHolding(owner).WithTicker("AAPL").WithAssetClass(model.AssetClassForeignEquity).WithCurrentPrice("150").Build(t, db)

	feedErr := fmt.Errorf("%w: brapi returned status 500", apperrors.ErrFeedUnavailable)
	fallback := testutil.NewMockPriceSource(map[string]float64{"AAPL": 200})
	svc := testutil.NewTestPriceService(t, db, testutil.NewMockFeed().WithError(feedErr), fallback)

	summary, err := svc.RefreshPrices(context.Background(), owner)

	require.Error(t, err)
	assert.Nil(t, summary)
	assert.ErrorIs(t, err, apperrors.ErrFailedToRefreshPrices)
	assert.ErrorIs(t, err, apperrors.ErrFeedUnavailable)
	assert.Empty(t, fallback.Calls, "nothing is refreshed once the batch fails")
	assert.Equal(t, "30", currentPrice(t, repo, owner, "PETR4"))
	assert.Equal(t, "150", currentPrice(t, repo, owner, "AAPL"))
}

func TestPriceService_RefreshPrices_NoFeedConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.MakeID()
	testutil.NewHolding(owner).WithTicker("PETR4").Build(t, db)
	svc := testutil.NewTestPriceService(t, db, nil, nil)

	_, err := svc.RefreshPrices(context.Background(), owner)
	assert.ErrorIs(t, err, apperrors.ErrFeedUnavailable)
}

func TestPriceService_RefreshPrices_NoFallbackConfigured(t *testing.T) {
	db := testutil.SetupTestDB(t)
	owner := testutil.MakeID()
	testutil.NewHolding(owner).WithTicker("AAPL").WithAssetClass(model.AssetClassForeignEquity).Build(t, db)
	testutil.NewHolding(owner).WithTicker("TES-SELIC-").WithAssetClass(model.AssetClassTreasury).Build(t, db)
	svc := testutil.NewTestPriceService(t, db, nil, nil)

	summary, err := svc.RefreshPrices(context.Background(), owner)
	require.NoError(t, err)
	assert.Zero(t, summary.Updated)
	assert.Equal(t, []string{"AAPL: " + apperrors.ErrFeedUnavailable.Error()}, summary.Errors)
}

func TestPriceService_RefreshPrices_NoHoldings(t *testing.T) {
	feed := testutil.NewMockFeed()
	svc := testutil.NewTestPriceService(t, testutil.SetupTestDB(t), feed, nil)

	summary, err := svc.RefreshPrices(context.Background(), testutil.MakeID())
	require.NoError(t, err)
	assert.Zero(t, summary.Updated)
	assert.NotNil(t, summary.Errors)
	assert.Empty(t, feed.Requests)
}
