package b3

import (
	"strings"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/workbook"
)

const nameDelimiter = " - "

// SplitName splits a "TICKER - FULL NAME" product field. Without the delimiter the whole
// trimmed string is returned as both ticker and name.
func SplitName(composite string) (ticker, name string) {
	cleaned := strings.TrimSpace(composite)
	if cleaned == "" {
		return "", ""
	}
	idx := strings.Index(cleaned, nameDelimiter)
	if idx == -1 {
		return cleaned, cleaned
	}
	return strings.TrimSpace(cleaned[:idx]), strings.TrimSpace(cleaned[idx+len(nameDelimiter):])
}

// SplitNameCell applies SplitName to a text cell. Any other cell yields empty strings.
func SplitNameCell(c workbook.Cell) (ticker, name string) {
	if c.Kind != workbook.Text {
		return "", ""
	}
	return SplitName(c.Text)
}

// DividendTicker extracts the ticker from a dividend-sheet product field. The dividend
// sheet reports some tickers with a trailing class letter (ALZR11L), which is removed.
func DividendTicker(composite string) string {
	ticker, _ := SplitName(composite)
	ticker = strings.ToUpper(ticker)
	if n := len(ticker); n > 0 {
		if last := ticker[n-1]; last >= 'A' && last <= 'Z' {
			ticker = ticker[:n-1]
		}
	}
	return ticker
}
