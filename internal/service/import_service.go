package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/b3"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/workbook"
)

// ImportService runs the statement and feed imports end to end.
type ImportService struct {
	holdings  *HoldingImporter
	dividends *DividendImporter
	feed      MarketFeed
	log       zerolog.Logger
}

// NewImportService creates a new ImportService. feed may be nil, in which case the feed
// dividend import reports the feed as unavailable.
func NewImportService(holdings HoldingStore, dividends DividendStore, feed MarketFeed, log zerolog.Logger) *ImportService {
	return &ImportService{
		holdings:  NewHoldingImporter(holdings, log),
		dividends: NewDividendImporter(holdings, dividends, log),
		feed:      feed,
		log:       log.With().Str("component", "import_service").Logger(),
	}
}

// ImportPositions reads every position sheet present in wb, merges rows for the same
// ticker and reconciles the result with the owner's holdings.
//
// Sheets are read concurrently but positions keep the fixed sheet order, so the first
// sheet a ticker appears in decides its name and asset class.
func (s *ImportService) ImportPositions(ctx context.Context, ownerID string, wb workbook.Workbook) (*model.PositionImportSummary, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}

	parsed, err := s.extractPositions(ctx, wb)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportPositions, err)
	}

	if len(parsed) == 0 {
		s.log.Warn().Str("owner", ownerID).Strs("sheets", wb.SheetNames()).Msg("no positions found in workbook")
	}

	consolidated := Consolidate(parsed)
	for _, c := range consolidated {
		if len(c.Sources) > 1 {
			s.log.Debug().Str("ticker", c.Ticker).Strs("sheets", c.Sources).Str("quantity", c.Quantity.String()).Msg("positions merged")
		}
	}

	summary, err := s.holdings.Reconcile(ctx, ownerID, consolidated)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportPositions, err)
	}
	return summary, nil
}

func (s *ImportService) extractPositions(ctx context.Context, wb workbook.Workbook) ([]model.ParsedPosition, error) {
	perSheet := make([][]model.ParsedPosition, len(b3.PositionLayouts))

	g, gctx := errgroup.WithContext(ctx)
	for i, layout := range b3.PositionLayouts {
		if !workbook.HasSheet(wb, layout.Sheet) {
			continue
		}
		i, layout := i, layout
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows, err := wb.Rows(layout.Sheet)
			if err != nil {
				return fmt.Errorf("failed to read sheet %q: %w", layout.Sheet, err)
			}
			perSheet[i] = b3.ExtractPositions(layout, rows)
			s.log.Debug().Str("sheet", layout.Sheet).Int("positions", len(perSheet[i])).Msg("sheet extracted")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var parsed []model.ParsedPosition
	for _, positions := range perSheet {
		parsed = append(parsed, positions...)
	}
	return parsed, nil
}

// ImportDividendStatement imports the dividends sheet of a statement workbook.
func (s *ImportService) ImportDividendStatement(ctx context.Context, ownerID string, wb workbook.Workbook) (*model.DividendImportSummary, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	if !workbook.HasSheet(wb, b3.SheetDividends) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrSheetNotFound, b3.SheetDividends)
	}

	rows, err := wb.Rows(b3.SheetDividends)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportDividends, err)
	}

	summary, err := s.dividends.ImportStatementEvents(ctx, ownerID, b3.ExtractDividends(rows))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportDividends, err)
	}
	return summary, nil
}

// ImportDividendFeed imports the last year of feed dividends for the owner's holdings.
func (s *ImportService) ImportDividendFeed(ctx context.Context, ownerID string) (*model.DividendImportSummary, error) {
	if s.feed == nil {
		return nil, fmt.Errorf("%w: market feed not configured", apperrors.ErrFeedUnavailable)
	}
	summary, err := s.dividends.ImportFeed(ctx, ownerID, s.feed)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToImportDividends, err)
	}
	return summary, nil
}
