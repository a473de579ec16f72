package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
)

// HoldingService serves read access to an owner's holdings and dividend history.
type HoldingService struct {
	holdings  HoldingStore
	dividends DividendStore
}

// NewHoldingService creates a new HoldingService with the provided store dependencies.
func NewHoldingService(holdings HoldingStore, dividends DividendStore) *HoldingService {
	return &HoldingService{
		holdings:  holdings,
		dividends: dividends,
	}
}

// GetHoldings returns every holding of the owner, newest first.
func (s *HoldingService) GetHoldings(ctx context.Context, ownerID string) ([]model.Holding, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	holdings, err := s.holdings.GetHoldings(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveHoldings, err)
	}
	return holdings, nil
}

// GetDividends returns the owner's dividend records with the ticker and name of the
// holding each was paid on, most recent payment first.
func (s *HoldingService) GetDividends(ctx context.Context, ownerID string) ([]model.DividendView, error) {
	if err := requireOwner(ownerID); err != nil {
		return nil, err
	}
	dividends, err := s.dividends.GetDividends(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveDividends, err)
	}
	return dividends, nil
}
