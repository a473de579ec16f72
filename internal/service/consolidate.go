package service

import (
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
)

// Consolidate merges parsed positions that share a ticker, e.g. the same fund held at two
// brokers. Quantities are summed; every other field is taken from the first position seen.
// Output order follows first appearance.
func Consolidate(parsed []model.ParsedPosition) []model.ConsolidatedPosition {
	index := make(map[string]int, len(parsed))
	consolidated := make([]model.ConsolidatedPosition, 0, len(parsed))

	for _, p := range parsed {
		ticker := model.NormalizeTicker(p.Ticker)
		if ticker == "" {
			continue
		}

		if i, ok := index[ticker]; ok {
			consolidated[i].Quantity = consolidated[i].Quantity.Add(p.Quantity)
			consolidated[i].Sources = append(consolidated[i].Sources, p.Sheet)
			continue
		}

		c := model.ConsolidatedPosition{ParsedPosition: p, Sources: []string{p.Sheet}}
		c.Ticker = ticker
		index[ticker] = len(consolidated)
		consolidated = append(consolidated, c)
	}

	return consolidated
}
