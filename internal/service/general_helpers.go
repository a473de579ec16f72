package service

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
)

// requireOwner rejects an empty owner ID. Every import path takes the owner explicitly;
// there is no fallback owner.
func requireOwner(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("%w: owner ID is required", apperrors.ErrInvalidOwnerID)
	}
	return nil
}

// appendUnique appends ticker to list unless it is already present.
func appendUnique(list []string, ticker string) []string {
	if slices.Contains(list, ticker) {
		return list
	}
	return append(list, ticker)
}

// holdingsByTicker indexes holdings by normalized ticker.
func holdingsByTicker(holdings []model.Holding) map[string]model.Holding {
	index := make(map[string]model.Holding, len(holdings))
	for _, h := range holdings {
		index[model.NormalizeTicker(h.Ticker)] = h
	}
	return index
}
