package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/repository"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/testutil"
)

type dividendFixture struct {
	db        *sql.DB
	owner     string
	importer  *service.DividendImporter
	dividends *repository.DividendRepository
}

func newDividendFixture(t *testing.T) *dividendFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	dividends := repository.NewDividendRepository(db)
	return &dividendFixture{
		db:        db,
		owner:     testutil.MakeID(),
		importer:  service.NewDividendImporter(repository.NewHoldingRepository(db), dividends, zerolog.Nop()),
		dividends: dividends,
	}
}

func (f *dividendFixture) holding(t *testing.T, ticker string) *testutil.HoldingBuilder {
	t.Helper()
	return testutil.NewHolding(f.owner).WithTicker(ticker)
}

func (f *dividendFixture) stored(t *testing.T) []model.DividendView {
	t.Helper()
	views, err := f.dividends.GetDividends(context.Background(), f.owner)
	require.NoError(t, err)
	return views
}

// daysAgo returns midnight UTC n days before today.
func daysAgo(n int) time.Time {
	now := time.Now().UTC()
	return testutil.Date(now.Year(), now.Month(), now.Day()-n)
}

func TestImportStatementEvents_Idempotent(t *testing.T) {
	f := newDividendFixture(t)
	f.holding(t, "PETR4").Build(t, f.db)
	ctx := context.Background()

	events := []model.ParsedDividendEvent{
		{Ticker: "PETR4", Subtype: model.SubtypeCashDividend, Amount: testutil.Dec("300"), PaymentDate: testutil.Date(2024, time.March, 15), Note: "B3 Import"},
		{Ticker: "petr4", Subtype: model.SubtypeEquityInterest, Amount: testutil.Dec("12.5"), PaymentDate: testutil.Date(2024, time.March, 15)},
		// Same date and subtype as the first, different lot.
		{Ticker: "PETR4", Subtype: model.SubtypeCashDividend, Amount: testutil.Dec("150"), PaymentDate: testutil.Date(2024, time.March, 15)},
	}

	first, err := f.importer.ImportStatementEvents(ctx, f.owner, events)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Imported)
	assert.Equal(t, 0, first.Skipped)
	assert.Equal(t, 3, first.TotalProcessed)

	second, err := f.importer.ImportStatementEvents(ctx, f.owner, events)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, first.Imported, second.Skipped)

	assert.Len(t, f.stored(t), 3)
}

func TestImportStatementEvents_UnknownTickers(t *testing.T) {
	f := newDividendFixture(t)
	f.holding(t, "PETR4").Build(t, f.db)

	events := []model.ParsedDividendEvent{
		{Ticker: "VALE3", Subtype: model.SubtypeCashDividend, Amount: testutil.Dec("10"), PaymentDate: testutil.Date(2024, time.May, 2)},
		{Ticker: "VALE3", Subtype: model.SubtypeCashDividend, Amount: testutil.Dec("11"), PaymentDate: testutil.Date(2024, time.June, 2)},
		{Ticker: "ITSA4", Subtype: model.SubtypeEquityInterest, Amount: testutil.Dec("1"), PaymentDate: testutil.Date(2024, time.May, 2)},
		{Ticker: "PETR4", Subtype: model.SubtypeCashDividend, Amount: testutil.Dec("5"), PaymentDate: testutil.Date(2024, time.May, 2)},
	}

	summary, err := f.importer.ImportStatementEvents(context.Background(), f.owner, events)
	require.NoError(t, err)
	assert.Equal(t, []string{"VALE3", "ITSA4"}, summary.NotFound)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)
	assert.Equal(t, 4, summary.TotalProcessed)
}

func TestImportStatementEvents_RequiresOwner(t *testing.T) {
	f := newDividendFixture(t)
	_, err := f.importer.ImportStatementEvents(context.Background(), " ", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOwnerID)
}

func TestImportFeed_AmountIsRateTimesQuantity(t *testing.T) {
	f := newDividendFixture(t)
	f.holding(t, "PETR4").WithQuantity("200").Build(t, f.db)
	paid := daysAgo(30)
	feed := testutil.NewMockFeed().WithDividend("PETR4", paid, "1.50", "DIVIDENDO")

	summary, err := f.importer.ImportFeed(context.Background(), f.owner, feed)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 1, summary.TotalProcessed)
	assert.Empty(t, summary.NotFound)

	stored := f.stored(t)
	require.Len(t, stored, 1)
	assert.True(t, stored[0].Amount.Equal(testutil.Dec("300.00")), "got %s", stored[0].Amount)
	assert.Equal(t, model.SubtypeCashDividend, stored[0].Subtype)
	assert.True(t, stored[0].PaymentDate.Equal(paid))
	assert.Equal(t, "Importado automaticamente via Brapi - R$ 1.5000/cota", stored[0].Note)
}

func TestImportFeed_RoundsToCents(t *testing.T) {
	assert.Equal(t, "3.70", service.FeedAmount(testutil.Dec("0.12345"), testutil.Dec("30")).StringFixed(2))
	assert.True(t, service.FeedAmount(testutil.Dec("0.333"), testutil.Dec("3")).Equal(testutil.Dec("1")))
}

func TestImportFeed_Idempotent(t *testing.T) {
	f := newDividendFixture(t)
	f.holding(t, "PETR4").Build(t, f.db)
	feed := testutil.NewMockFeed().
		WithDividend("PETR4", daysAgo(10), "0.5", "DIVIDENDO").
		WithDividend("PETR4", daysAgo(10), "0.2", "JCP").
		WithDividend("PETR4", daysAgo(100), "0.7", "DIVIDENDO")
	ctx := context.Background()

	first, err := f.importer.ImportFeed(ctx, f.owner, feed)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Imported)

	second, err := f.importer.ImportFeed(ctx, f.owner, feed)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Imported)
	assert.Equal(t, first.Imported, second.Skipped)
	assert.Len(t, f.stored(t), 3)
}

func TestImportFeed_QuantityChangeDoesNotDuplicate(t *testing.T) {
	f := newDividendFixture(t)
	h := f.holding(t, "PETR4").WithQuantity("100").Build(t, f.db)
	feed := testutil.NewMockFeed().WithDividend("PETR4", daysAgo(5), "1", "DIVIDENDO")
	ctx := context.Background()

	_, err := f.importer.ImportFeed(ctx, f.owner, feed)
	require.NoError(t, err)

	require.NoError(t, repository.NewHoldingRepository(f.db).
		UpdateHoldingFromImport(ctx, h.ID, testutil.Dec("150"), testutil.Dec("30"), h.Name))

	summary, err := f.importer.ImportFeed(ctx, f.owner, feed)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Imported)
	assert.Equal(t, 1, summary.Skipped)
	assert.Len(t, f.stored(t), 1)
}

func TestImportFeed_DropsUnusableEntries(t *testing.T) {
	f := newDividendFixture(t)
	f.holding(t, "PETR4").Build(t, f.db)
	feed := testutil.NewMockFeed().
		WithDividend("PETR4", daysAgo(400), "1", "DIVIDENDO").
		WithDividend("PETR4", daysAgo(3), "0", "DIVIDENDO").
		WithDividend("PETR4", daysAgo(3), "abc", "DIVIDENDO").
		WithDividend("PETR4", daysAgo(3), "0.8", "RENDIMENTO")
	q := feed.QuoteData["PETR4"]
	q.DividendsData.CashDividends[0].PaymentDate = "not a date"
	q.DividendsData.CashDividends = append(q.DividendsData.CashDividends, q.DividendsData.CashDividends[3])
	q.DividendsData.CashDividends[4].PaymentDate = daysAgo(400).Format(time.RFC3339)
	feed.QuoteData["PETR4"] = q

	summary, err := f.importer.ImportFeed(context.Background(), f.owner, feed)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalProcessed)
	assert.Equal(t, 1, summary.Imported)
	assert.Equal(t, 0, summary.Skipped)

	stored := f.stored(t)
	require.Len(t, stored, 1)
	assert.Equal(t, model.SubtypeYield, stored[0].Subtype)
}

func TestImportFeed_OnlyQueriesEquityAndReits(t *testing.T) {
	f := newDividendFixture(t)
	f.holding(t, "PETR4").Build(t, f.db)
	f.holding(t, "MXRF11").WithAssetClass(model.AssetClassReitLocal).Build(t, f.db)
	f.holding(t, "BOVA11").WithAssetClass(model.AssetClassETF).Build(t, f.db)
	f.holding(t, "AAPL34").WithAssetClass(model.AssetClassForeignEquity).Build(t, f.db)
	f.holding(t, "TES-SELIC-").WithAssetClass(model.AssetClassTreasury).Build(t, f.db)

	feed := testutil.NewMockFeed().WithDividend("MXRF11", daysAgo(20), "0.09", "RENDIMENTO")

	summary, err := f.importer.ImportFeed(context.Background(), f.owner, feed)
	require.NoError(t, err)

	require.Len(t, feed.Requests, 1)
	assert.ElementsMatch(t, []string{"PETR4", "MXRF11"}, feed.Requests[0])
	assert.Equal(t, []string{"PETR4"}, summary.NotFound)
	assert.Equal(t, 1, summary.Imported)
}

func TestImportFeed_NoEligibleHoldings(t *testing.T) {
	f := newDividendFixture(t)
	f.holding(t, "BOVA11").WithAssetClass(model.AssetClassETF).Build(t, f.db)
	feed := testutil.NewMockFeed()

	summary, err := f.importer.ImportFeed(context.Background(), f.owner, feed)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalProcessed)
	assert.Empty(t, feed.Requests)
}

func TestImportFeed_FeedErrorAborts(t *testing.T) {
	f := newDividendFixture(t)
	f.holding(t, "PETR4").Build(t, f.db)
	feedErr := errors.New("feed down")
	feed := testutil.NewMockFeed().WithError(feedErr)

	summary, err := f.importer.ImportFeed(context.Background(), f.owner, feed)
	assert.ErrorIs(t, err, feedErr)
	assert.Nil(t, summary)
	assert.Empty(t, f.stored(t))
}
