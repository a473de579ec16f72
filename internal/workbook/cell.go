// Package workbook models spreadsheet input as named sheets of typed cells and
// provides the coercions the statement extractors build on.
package workbook

import (
	"strconv"
	"strings"
)

// Kind tags the value held by a Cell.
type Kind uint8

const (
	Blank Kind = iota
	Text
	Number
)

// Cell is a single grid value. Exactly one of Text or Num is meaningful, selected by Kind.
type Cell struct {
	Kind Kind
	Text string
	Num  float64
}

// TextCell returns a text cell, or a blank cell when s holds only whitespace.
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Cell{}
	}
	return Cell{Kind: Text, Text: s}
}

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell {
	return Cell{Kind: Number, Num: f}
}

// IsBlank reports whether the cell holds no value.
func (c Cell) IsBlank() bool {
	return c.Kind == Blank
}

// String renders the cell the way a spreadsheet would show its raw value.
func (c Cell) String() string {
	switch c.Kind {
	case Text:
		return c.Text
	case Number:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	}
	return ""
}

// Row is one sheet row, addressed by zero-based column index.
type Row []Cell

// At returns the cell at column i, or a blank cell past the end of the row.
func (r Row) At(i int) Cell {
	if i < 0 || i >= len(r) {
		return Cell{}
	}
	return r[i]
}

// AsNumber returns the value of a numeric cell. Text that looks like a number is
// rejected: statement layouts rely on typed numeric cells to tell data rows from
// headers and subtotals.
func AsNumber(c Cell) (float64, bool) {
	if c.Kind != Number {
		return 0, false
	}
	return c.Num, true
}

// AsNonEmptyString returns the trimmed content of a non-blank text cell.
func AsNonEmptyString(c Cell) (string, bool) {
	if c.Kind != Text {
		return "", false
	}
	s := strings.TrimSpace(c.Text)
	return s, s != ""
}

// AsLocaleNumber accepts numeric cells and text in either "1234.56" or Brazilian
// "R$ 1.234,56" notation.
func AsLocaleNumber(c Cell) (float64, bool) {
	switch c.Kind {
	case Number:
		return c.Num, true
	case Text:
		return parseLocaleNumber(c.Text)
	}
	return 0, false
}

func parseLocaleNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
