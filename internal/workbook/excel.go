package workbook

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
)

// Excel is a Workbook backed by an .xlsx document.
type Excel struct {
	f *excelize.File
}

// Open reads an .xlsx document from r.
func Open(r io.Reader) (*Excel, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidWorkbook, err)
	}
	return &Excel{f: f}, nil
}

// Close releases temporary files excelize may have created while reading.
func (e *Excel) Close() error {
	return e.f.Close()
}

// SheetNames returns sheet names in workbook order.
func (e *Excel) SheetNames() []string {
	return e.f.GetSheetList()
}

// Rows returns every row of a sheet with cells typed from the stored cell type.
// Numbers are read without applying the cell's number format, so dates arrive as
// serial day counts.
func (e *Excel) Rows(sheet string) ([]Row, error) {
	raw, err := e.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	rows := make([]Row, len(raw))
	for r, values := range raw {
		row := make(Row, len(values))
		for c, v := range values {
			row[c] = e.cell(sheet, c, r, v)
		}
		rows[r] = row
	}
	return rows, nil
}

func (e *Excel) cell(sheet string, col, row int, raw string) Cell {
	if strings.TrimSpace(raw) == "" {
		return Cell{}
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return TextCell(raw)
	}
	typ, err := e.f.GetCellType(sheet, axis)
	if err != nil {
		return TextCell(raw)
	}

	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return NumberCell(f)
		}
	case excelize.CellTypeError:
		return Cell{}
	}
	return TextCell(raw)
}
