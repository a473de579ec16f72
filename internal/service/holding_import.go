package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
)

type reconcileOutcome int

const (
	outcomeCreated reconcileOutcome = iota
	outcomeUpdated
)

// HoldingImporter reconciles consolidated statement positions against stored holdings.
type HoldingImporter struct {
	holdings HoldingStore
	log      zerolog.Logger
}

// NewHoldingImporter creates a new HoldingImporter.
func NewHoldingImporter(holdings HoldingStore, log zerolog.Logger) *HoldingImporter {
	return &HoldingImporter{
		holdings: holdings,
		log:      log.With().Str("component", "holding_importer").Logger(),
	}
}

// Reconcile creates a holding for every new ticker and refreshes quantity, current price
// and name of existing ones. A failing position is reported in Skipped and does not stop
// the run.
//
// The average price of an existing holding is never touched: a statement is a snapshot
// and cannot tell the real cost basis. New holdings take the position's average price
// when the sheet provides one, and the reference price otherwise.
func (s *HoldingImporter) Reconcile(ctx context.Context, ownerID string, positions []model.ConsolidatedPosition) (*model.PositionImportSummary, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	summary := &model.PositionImportSummary{
		Skipped: []string{},
		Total:   len(positions),
	}

	for _, p := range positions {
		outcome, err := s.reconcileOne(ctx, ownerID, p)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("owner", ownerID).
				Str("ticker", p.Ticker).
				Msg("holding not reconciled")
			summary.Skipped = append(summary.Skipped, p.Ticker)
			continue
		}

		switch outcome {
		case outcomeCreated:
			summary.Created++
		case outcomeUpdated:
			summary.Updated++
		}
	}

	return summary, nil
}

func (s *HoldingImporter) reconcileOne(ctx context.Context, ownerID string, p model.ConsolidatedPosition) (reconcileOutcome, error) {
	if p.Quantity.IsNegative() {
		return 0, fmt.Errorf("%w: quantity %s", apperrors.ErrNegativeAmount, p.Quantity)
	}
	if !p.AssetClass.Valid() {
		return 0, fmt.Errorf("unknown asset class %q", p.AssetClass)
	}

	existing, err := s.holdings.GetHoldingByTicker(ctx, ownerID, p.Ticker)
	switch {
	case err == nil:
		return outcomeUpdated, s.update(ctx, existing.ID, p)
	case !errors.Is(err, apperrors.ErrHoldingNotFound):
		return 0, err
	}

	averagePrice := p.ReferencePrice
	if p.AveragePrice.Valid {
		averagePrice = p.AveragePrice.Decimal
	}

	h := &model.Holding{
		OwnerID:      ownerID,
		Ticker:       p.Ticker,
		Name:         p.Name,
		AssetClass:   p.AssetClass,
		Quantity:     p.Quantity,
		AveragePrice: averagePrice,
	}
	h.CurrentPrice.Decimal = p.ReferencePrice
	h.CurrentPrice.Valid = true

	err = s.holdings.CreateHolding(ctx, h)
	if errors.Is(err, apperrors.ErrDuplicateEntry) {
		// Another import created the ticker between lookup and insert.
		existing, err = s.holdings.GetHoldingByTicker(ctx, ownerID, p.Ticker)
		if err != nil {
			return 0, err
		}
		return outcomeUpdated, s.update(ctx, existing.ID, p)
	}
	if err != nil {
		return 0, err
	}

	s.log.Debug().Str("owner", ownerID).Str("ticker", p.Ticker).Msg("holding created")
	return outcomeCreated, nil
}

func (s *HoldingImporter) update(ctx context.Context, id string, p model.ConsolidatedPosition) error {
	return s.holdings.UpdateHoldingFromImport(ctx, id, p.Quantity, p.ReferencePrice, p.Name)
}
