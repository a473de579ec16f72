package b3

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/workbook"
)

// ExtractDividends reads the "Proventos Recebidos" sheet. Rows missing the product or
// payment date, with an unreadable date, or without a positive net value are skipped.
func ExtractDividends(rows []workbook.Row) []model.ParsedDividendEvent {
	l := DividendLayout
	events := []model.ParsedDividendEvent{}

	for _, row := range dataRows(rows) {
		product := l.Cell(row, FieldProduct)
		payment := l.Cell(row, FieldPaymentDate)
		if product.IsBlank() || payment.IsBlank() {
			continue
		}

		ticker := DividendTicker(product.String())
		if ticker == "" {
			continue
		}

		date, ok := NormalizeDate(payment)
		if !ok {
			continue
		}

		value, ok := workbook.AsLocaleNumber(l.Cell(row, FieldNetValue))
		if !ok || value <= 0 {
			continue
		}

		qty, _ := workbook.AsLocaleNumber(l.Cell(row, FieldQuantity))
		unit, _ := workbook.AsLocaleNumber(l.Cell(row, FieldUnitPrice))

		events = append(events, model.ParsedDividendEvent{
			Ticker:      ticker,
			Subtype:     ClassifyEvent(l.Cell(row, FieldEventType).String()),
			Amount:      decimal.NewFromFloat(value),
			PaymentDate: date,
			Note: fmt.Sprintf("B3 Import - %s cotas × R$ %s/cota",
				decimal.NewFromFloat(qty).String(),
				decimal.NewFromFloat(unit).StringFixed(4)),
		})
	}

	return events
}

// ClassifyEvent maps a free-text event label from a statement or the feed to a subtype.
// Interest on equity wins over yield when a label mentions both.
func ClassifyEvent(label string) model.DividendSubtype {
	normalized := strings.ToUpper(label)
	switch {
	case strings.Contains(normalized, "JCP"),
		strings.Contains(normalized, "JUROS"),
		strings.Contains(normalized, "CAPITAL"):
		return model.SubtypeEquityInterest
	case strings.Contains(normalized, "RENDIMENTO"):
		return model.SubtypeYield
	}
	return model.SubtypeCashDividend
}
