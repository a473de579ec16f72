package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/b3"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/repository"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/testutil"
)

func consolidated(p ...model.ParsedPosition) []model.ConsolidatedPosition {
	return service.Consolidate(p)
}

func TestReconcile_CreatesThenUpdates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)
	importer := service.NewHoldingImporter(repo, zerolog.Nop())
	ctx := context.Background()
	owner := testutil.MakeID()

	summary, err := importer.Reconcile(ctx, owner, consolidated(
		parsed("PETR4", "PETROBRAS PN", model.AssetClassEquity, "100", "38.5", b3.SheetEquities),
	))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 1, summary.Total)
	assert.Empty(t, summary.Skipped)

	created, err := repo.GetHoldingByTicker(ctx, owner, "PETR4")
	require.NoError(t, err)
	assert.True(t, created.AveragePrice.Equal(testutil.Dec("38.5")), "new holding takes the reference price as cost basis")
	assert.True(t, created.CurrentPrice.Decimal.Equal(testutil.Dec("38.5")))

	summary, err = importer.Reconcile(ctx, owner, consolidated(
		parsed("PETR4", "PETROBRAS PN N2", model.AssetClassEquity, "150", "41", b3.SheetEquities),
	))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Updated)

	updated, err := repo.GetHoldingByTicker(ctx, owner, "PETR4")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.True(t, updated.Quantity.Equal(testutil.Dec("150")))
	assert.True(t, updated.CurrentPrice.Decimal.Equal(testutil.Dec("41")))
	assert.Equal(t, "PETROBRAS PN N2", updated.Name)
	assert.True(t, updated.AveragePrice.Equal(testutil.Dec("38.5")), "average price survives updates")
}

func TestReconcile_NeverDuplicatesHoldings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)
	importer := service.NewHoldingImporter(repo, zerolog.Nop())
	owner := testutil.MakeID()

	positions := consolidated(
		parsed("PETR4", "PETROBRAS", model.AssetClassEquity, "100", "38", b3.SheetEquities),
		parsed("petr4 ", "PETROBRAS", model.AssetClassEquity, "20", "38", b3.SheetEquities),
		parsed("MXRF11", "MAXI RENDA", model.AssetClassReitLocal, "300", "10", b3.SheetREIT),
	)
	for i := 0; i < 3; i++ {
		_, err := importer.Reconcile(context.Background(), owner, positions)
		require.NoError(t, err)
	}

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM holding WHERE owner_id = ? AND ticker = 'PETR4'`, owner).Scan(&count))
	assert.Equal(t, 1, count)

	holdings, err := repo.GetHoldings(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, holdings, 2)
}

func TestReconcile_TreasuryAveragePrice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)
	importer := service.NewHoldingImporter(repo, zerolog.Nop())
	owner := testutil.MakeID()

	p := parsed("TES-SELIC-", "Tesouro Selic 2026", model.AssetClassTreasury, "10", "110", b3.SheetTreasury)
	p.AveragePrice = decimal.NewNullDecimal(testutil.Dec("100"))
	p.Treasury = true

	_, err := importer.Reconcile(context.Background(), owner, consolidated(p))
	require.NoError(t, err)

	h, err := repo.GetHoldingByTicker(context.Background(), owner, "TES-SELIC-")
	require.NoError(t, err)
	assert.True(t, h.AveragePrice.Equal(testutil.Dec("100")))
	assert.True(t, h.CurrentPrice.Decimal.Equal(testutil.Dec("110")))
	assert.Equal(t, model.AssetClassTreasury, h.AssetClass)
}

func TestReconcile_NegativeQuantityIsSkipped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	importer := service.NewHoldingImporter(repository.NewHoldingRepository(db), zerolog.Nop())

	summary, err := importer.Reconcile(context.Background(), testutil.MakeID(), consolidated(
		parsed("PETR4", "PETROBRAS", model.AssetClassEquity, "-1", "38", b3.SheetEquities),
		parsed("VALE3", "VALE", model.AssetClassEquity, "5", "60", b3.SheetEquities),
	))

	require.NoError(t, err)
	assert.Equal(t, []string{"PETR4"}, summary.Skipped)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 2, summary.Total)
}

func TestReconcile_RequiresOwner(t *testing.T) {
	importer := service.NewHoldingImporter(nil, zerolog.Nop())
	_, err := importer.Reconcile(context.Background(), "", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOwnerID)
}

// racingStore reports the ticker as absent on the first lookup and as a duplicate on
// insert, the way a concurrent import for the same owner looks from inside a run.
type racingStore struct {
	service.HoldingStore
	lookups int
	updated []string
}

func (r *racingStore) GetHoldingByTicker(_ context.Context, ownerID, ticker string) (*model.Holding, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, apperrors.ErrHoldingNotFound
	}
	return &model.Holding{ID: "existing", OwnerID: ownerID, Ticker: ticker}, nil
}

func (r *racingStore) CreateHolding(context.Context, *model.Holding) error {
	return apperrors.ErrDuplicateEntry
}

func (r *racingStore) UpdateHoldingFromImport(_ context.Context, id string, _, _ decimal.Decimal, _ string) error {
	r.updated = append(r.updated, id)
	return nil
}

func TestReconcile_DuplicateOnCreateBecomesUpdate(t *testing.T) {
	store := &racingStore{}
	importer := service.NewHoldingImporter(store, zerolog.Nop())

	summary, err := importer.Reconcile(context.Background(), testutil.MakeID(), consolidated(
		parsed("PETR4", "PETROBRAS", model.AssetClassEquity, "100", "38", b3.SheetEquities),
	))

	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, []string{"existing"}, store.updated)
}

func TestReconcile_UnknownAssetClassIsSkipped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewHoldingRepository(db)
	importer := service.NewHoldingImporter(repo, zerolog.Nop())
	owner := testutil.MakeID()

	summary, err := importer.Reconcile(context.Background(), owner, consolidated(
		parsed("BTC", "BITCOIN", model.AssetClass("CRYPTO"), "1", "300000", "Cripto"),
		parsed("PETR4", "PETROBRAS", model.AssetClassEquity, "10", "38", b3.SheetEquities),
	))

	require.NoError(t, err)
	assert.Equal(t, []string{"BTC"}, summary.Skipped)
	assert.Equal(t, 1, summary.Created)

	_, err = repo.GetHoldingByTicker(context.Background(), owner, "BTC")
	assert.ErrorIs(t, err, apperrors.ErrHoldingNotFound)
}
