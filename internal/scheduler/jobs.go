package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
)

// OwnerLister lists the owners that have at least one holding.
type OwnerLister interface {
	GetOwnerIDs(ctx context.Context) ([]string, error)
}

// DividendFeedImporter imports feed dividends for one owner.
type DividendFeedImporter interface {
	ImportDividendFeed(ctx context.Context, ownerID string) (*model.DividendImportSummary, error)
}

// PriceRefresher refreshes prices for one owner.
type PriceRefresher interface {
	RefreshPrices(ctx context.Context, ownerID string) (*model.PriceRefreshSummary, error)
}

// DividendFeedJob imports feed dividends for every owner.
type DividendFeedJob struct {
	owners   OwnerLister
	importer DividendFeedImporter
	log      zerolog.Logger
}

// NewDividendFeedJob creates a new DividendFeedJob.
func NewDividendFeedJob(owners OwnerLister, importer DividendFeedImporter, log zerolog.Logger) *DividendFeedJob {
	return &DividendFeedJob{
		owners:   owners,
		importer: importer,
		log:      log.With().Str("job", "dividend_feed").Logger(),
	}
}

// Name returns the job name
func (j *DividendFeedJob) Name() string { return "dividend_feed" }

// Run imports dividends owner by owner. A failing owner does not stop the others;
// all failures are returned joined.
func (j *DividendFeedJob) Run(ctx context.Context) error {
	return forEachOwner(ctx, j.owners, func(ownerID string) error {
		summary, err := j.importer.ImportDividendFeed(ctx, ownerID)
		if err != nil {
			return err
		}
		j.log.Info().
			Str("owner", ownerID).
			Int("imported", summary.Imported).
			Int("skipped", summary.Skipped).
			Msg("feed dividends synced")
		return nil
	})
}

// PriceRefreshJob refreshes prices for every owner.
type PriceRefreshJob struct {
	owners    OwnerLister
	refresher PriceRefresher
	log       zerolog.Logger
}

// NewPriceRefreshJob creates a new PriceRefreshJob.
func NewPriceRefreshJob(owners OwnerLister, refresher PriceRefresher, log zerolog.Logger) *PriceRefreshJob {
	return &PriceRefreshJob{
		owners:    owners,
		refresher: refresher,
		log:       log.With().Str("job", "price_refresh").Logger(),
	}
}

// Name returns the job name
func (j *PriceRefreshJob) Name() string { return "price_refresh" }

// Run refreshes prices owner by owner.
func (j *PriceRefreshJob) Run(ctx context.Context) error {
	return forEachOwner(ctx, j.owners, func(ownerID string) error {
		summary, err := j.refresher.RefreshPrices(ctx, ownerID)
		if err != nil {
			return err
		}
		j.log.Info().
			Str("owner", ownerID).
			Int("updated", summary.Updated).
			Int("errors", len(summary.Errors)).
			Msg("prices refreshed")
		return nil
	})
}

func forEachOwner(ctx context.Context, owners OwnerLister, fn func(ownerID string) error) error {
	ids, err := owners.GetOwnerIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list owners: %w", err)
	}

	var errs []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := fn(id); err != nil {
			errs = append(errs, fmt.Errorf("owner %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
