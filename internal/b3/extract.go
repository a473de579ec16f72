package b3

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/workbook"
)

const treasuryTickerLength = 10

var (
	whitespaceRun       = regexp.MustCompile(`\s+`)
	treasuryTickerChars = regexp.MustCompile(`[^A-Z0-9+-]`)
)

// ExtractPositions turns the rows of a position sheet into parsed positions.
// Rows without a ticker or with non-numeric quantity or price are skipped; this is how
// headers, footers and subtotal lines drop out.
func ExtractPositions(l Layout, rows []workbook.Row) []model.ParsedPosition {
	positions := []model.ParsedPosition{}
	for _, row := range dataRows(rows) {
		var (
			p  model.ParsedPosition
			ok bool
		)
		if l.Treasury {
			p, ok = treasuryPosition(l, row)
		} else {
			p, ok = standardPosition(l, row)
		}
		if ok {
			positions = append(positions, p)
		}
	}
	return positions
}

func standardPosition(l Layout, row workbook.Row) (model.ParsedPosition, bool) {
	ticker, ok := workbook.AsNonEmptyString(l.Cell(row, FieldTicker))
	if !ok {
		return model.ParsedPosition{}, false
	}
	quantity, okQty := workbook.AsNumber(l.Cell(row, FieldQuantity))
	price, okPrice := workbook.AsNumber(l.Cell(row, FieldPrice))
	if !okQty || !okPrice || quantity < 0 || price < 0 {
		return model.ParsedPosition{}, false
	}

	_, name := SplitNameCell(l.Cell(row, FieldProduct))
	if name == "" {
		name = ticker
	}

	return model.ParsedPosition{
		Ticker:         model.NormalizeTicker(ticker),
		Name:           name,
		AssetClass:     l.AssetClass,
		Quantity:       decimal.NewFromFloat(quantity),
		ReferencePrice: decimal.NewFromFloat(price),
		Sheet:          l.Sheet,
	}, true
}

func treasuryPosition(l Layout, row workbook.Row) (model.ParsedPosition, bool) {
	name, ok := workbook.AsNonEmptyString(l.Cell(row, FieldProduct))
	if !ok {
		return model.ParsedPosition{}, false
	}
	qty, ok := workbook.AsNumber(l.Cell(row, FieldQuantity))
	if !ok || qty < 0 {
		return model.ParsedPosition{}, false
	}

	updated, ok := workbook.AsNumber(l.Cell(row, FieldUpdatedValue))
	if !ok {
		updated = 0
	}
	applied, ok := workbook.AsNumber(l.Cell(row, FieldAppliedValue))
	if !ok {
		applied = updated
	}

	quantity := decimal.NewFromFloat(qty)
	reference := decimal.NewFromFloat(updated)
	average := decimal.NewFromFloat(applied)
	if quantity.IsPositive() {
		reference = reference.Div(quantity)
		average = average.Div(quantity)
	}

	return model.ParsedPosition{
		Ticker:         TreasuryTicker(name),
		Name:           name,
		AssetClass:     l.AssetClass,
		Quantity:       quantity,
		ReferencePrice: reference,
		AveragePrice:   decimal.NewNullDecimal(average),
		Treasury:       true,
		Sheet:          l.Sheet,
	}, true
}

// TreasuryTicker synthesizes a ticker for a treasury bond from its product name,
// e.g. "Tesouro IPCA+ 2035" becomes "TES-IPCA+-".
func TreasuryTicker(product string) string {
	s := strings.Replace(strings.TrimSpace(product), "Tesouro ", "TES-", 1)
	s = whitespaceRun.ReplaceAllString(s, "-")
	// Upper-case before filtering so the result is pure ASCII and safe to cut by byte.
	s = treasuryTickerChars.ReplaceAllString(strings.ToUpper(s), "")
	if len(s) > treasuryTickerLength {
		s = s[:treasuryTickerLength]
	}
	return s
}
