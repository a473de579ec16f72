package testutil

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/b3"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/workbook"
)

// Sheet is a named list of rows used to build statement fixtures. The first row is
// the header, as in a real statement.
type Sheet struct {
	Name string
	Rows [][]any
}

// header is the single header row every statement sheet starts with.
var header = []any{"Produto"}

// NewSheet creates a sheet with the statement header followed by rows.
func NewSheet(name string, rows ...[]any) Sheet {
	return Sheet{Name: name, Rows: append([][]any{header}, rows...)}
}

// EquityRow builds an "Acoes" or "Fundo de Investimento" row.
func EquityRow(product, ticker string, quantity, price any) []any {
	row := make([]any, 13)
	row[0], row[3], row[8], row[12] = product, ticker, quantity, price
	return row
}

// ListedFundRow builds a "BDR" or "ETF" row.
func ListedFundRow(product, ticker string, quantity, price any) []any {
	row := make([]any, 12)
	row[0], row[3], row[7], row[11] = product, ticker, quantity, price
	return row
}

// TreasuryRow builds a "Tesouro Direto" row.
func TreasuryRow(product string, quantity, applied, updated any) []any {
	row := make([]any, 13)
	row[0], row[5], row[9], row[12] = product, quantity, applied, updated
	return row
}

// DividendRow builds a "Proventos Recebidos" row.
func DividendRow(product string, paymentDate any, event string, quantity, unitPrice, netValue any) []any {
	return []any{product, paymentDate, event, "XP INVESTIMENTOS", quantity, unitPrice, netValue}
}

// MemoryWorkbook builds an in-memory workbook from sheets.
func MemoryWorkbook(sheets ...Sheet) *workbook.Memory {
	wb := workbook.NewMemory()
	for _, s := range sheets {
		wb.AddSheet(s.Name, s.Rows...)
	}
	return wb
}

// XLSX renders sheets as an .xlsx document. Strings are stored as text cells and Go
// numbers as numeric cells; nil leaves the cell empty.
func XLSX(t *testing.T, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("Failed to add sheet %q: %v", s.Name, err)
		}

		for r, row := range s.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("Invalid cell coordinates: %v", err)
				}
				if err := f.SetCellValue(s.Name, axis, v); err != nil {
					t.Fatalf("Failed to set %s!%s: %v", s.Name, axis, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to render workbook: %v", err)
	}
	return buf.Bytes()
}

// SampleStatement is a position statement with one row per asset class, PETR4 listed
// twice as if held at two brokers.
func SampleStatement() []Sheet {
	return []Sheet{
		NewSheet(b3.SheetEquities,
			EquityRow("PETR4 - PETROBRAS PN", "PETR4", 100.0, 38.5),
			EquityRow("PETR4 - PETROBRAS PN", "PETR4", 50.0, 38.5),
		),
		NewSheet(b3.SheetBDR, ListedFundRow("AAPL34 - APPLE DRN", "AAPL34", 10.0, 52.1)),
		NewSheet(b3.SheetETF, ListedFundRow("BOVA11 - ISHARES BOVA", "BOVA11", 20.0, 120.0)),
		NewSheet(b3.SheetREIT, EquityRow("MXRF11 - MAXI RENDA", "MXRF11", 300.0, 10.2)),
		NewSheet(b3.SheetTreasury, TreasuryRow("Tesouro Selic 2026", 2.0, 28000.0, 30000.0)),
	}
}
