package workbook

import (
	"fmt"
	"slices"
)

// Workbook is a read-only collection of named sheets.
type Workbook interface {
	SheetNames() []string
	Rows(sheet string) ([]Row, error)
}

// HasSheet reports whether wb contains a sheet with the exact given name.
func HasSheet(wb Workbook, name string) bool {
	return slices.Contains(wb.SheetNames(), name)
}

// Memory is a Workbook held entirely in memory.
//
// Example:
//
//	wb := workbook.NewMemory().
//	    AddSheet("Acoes",
//	        []any{"Produto", "Instituição"},
//	        []any{"PETR4 - PETROBRAS PN", "XP"},
//	    )
type Memory struct {
	order  []string
	sheets map[string][]Row
}

// NewMemory creates an empty in-memory workbook.
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][]Row)}
}

// AddSheet appends a sheet. Values may be Cell, string, any Go integer or float type, or nil.
// Adding a sheet that already exists replaces its rows.
func (m *Memory) AddSheet(name string, rows ...[]any) *Memory {
	converted := make([]Row, len(rows))
	for i, values := range rows {
		row := make(Row, len(values))
		for j, v := range values {
			row[j] = toCell(v)
		}
		converted[i] = row
	}
	if _, ok := m.sheets[name]; !ok {
		m.order = append(m.order, name)
	}
	m.sheets[name] = converted
	return m
}

// SheetNames returns sheet names in insertion order.
func (m *Memory) SheetNames() []string {
	return slices.Clone(m.order)
}

// Rows returns the rows of a sheet.
func (m *Memory) Rows(sheet string) ([]Row, error) {
	rows, ok := m.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q does not exist", sheet)
	}
	return rows, nil
}

func toCell(v any) Cell {
	switch x := v.(type) {
	case nil:
		return Cell{}
	case Cell:
		return x
	case string:
		return TextCell(x)
	case float64:
		return NumberCell(x)
	case float32:
		return NumberCell(float64(x))
	case int:
		return NumberCell(float64(x))
	case int64:
		return NumberCell(float64(x))
	case int32:
		return NumberCell(float64(x))
	default:
		return TextCell(fmt.Sprint(x))
	}
}
