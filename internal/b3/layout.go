// Package b3 reads the spreadsheet statements exported by the B3 investor portal:
// the per-asset-class position sheets and the "Proventos Recebidos" dividend sheet.
package b3

import (
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/workbook"
)

// Sheet names as exported by the portal.
const (
	SheetEquities   = "Acoes"
	SheetBDR        = "BDR"
	SheetETF        = "ETF"
	SheetREIT       = "Fundo de Investimento"
	SheetTreasury   = "Tesouro Direto"
	SheetDividends  = "Proventos Recebidos"
	headerRowsCount = 1
)

// Field names a column of a statement sheet.
type Field string

const (
	FieldTicker       Field = "ticker"
	FieldProduct      Field = "product"
	FieldQuantity     Field = "quantity"
	FieldPrice        Field = "price"
	FieldAppliedValue Field = "appliedValue"
	FieldUpdatedValue Field = "updatedValue"
	FieldPaymentDate  Field = "paymentDate"
	FieldEventType    Field = "eventType"
	FieldUnitPrice    Field = "unitPrice"
	FieldNetValue     Field = "netValue"
)

// Layout maps the named fields of one sheet to zero-based column indices.
// The indices are fixed by the export format.
type Layout struct {
	Sheet      string
	AssetClass model.AssetClass
	Columns    map[Field]int
	// Treasury selects the treasury rule: no ticker column, prices derived from totals.
	Treasury bool
}

// Cell returns the cell mapped to f, or a blank cell when the layout has no such column.
func (l Layout) Cell(row workbook.Row, f Field) workbook.Cell {
	idx, ok := l.Columns[f]
	if !ok {
		return workbook.Cell{}
	}
	return row.At(idx)
}

// PositionLayouts lists the position sheets in processing order. Consolidation keeps the
// first-seen name and class for a ticker, so this order is part of the import result.
var PositionLayouts = []Layout{
	{
		// Produto, Instituição, Conta, Código de Negociação, CNPJ, ISIN, Tipo, Escriturador, Quantidade, ..., Preço de Fechamento
		Sheet:      SheetEquities,
		AssetClass: model.AssetClassEquity,
		Columns:    map[Field]int{FieldTicker: 3, FieldProduct: 0, FieldQuantity: 8, FieldPrice: 12},
	},
	{
		// Produto, Instituição, Conta, Código de Negociação, ISIN, Tipo, Escriturador, Quantidade, ..., Preço de Fechamento
		Sheet:      SheetBDR,
		AssetClass: model.AssetClassForeignEquity,
		Columns:    map[Field]int{FieldTicker: 3, FieldProduct: 0, FieldQuantity: 7, FieldPrice: 11},
	},
	{
		Sheet:      SheetETF,
		AssetClass: model.AssetClassETF,
		Columns:    map[Field]int{FieldTicker: 3, FieldProduct: 0, FieldQuantity: 7, FieldPrice: 11},
	},
	{
		Sheet:      SheetREIT,
		AssetClass: model.AssetClassReitLocal,
		Columns:    map[Field]int{FieldTicker: 3, FieldProduct: 0, FieldQuantity: 8, FieldPrice: 12},
	},
	{
		// Produto, ..., Quantidade(5), ..., Valor Aplicado(9), ..., Valor Atualizado(12)
		Sheet:      SheetTreasury,
		AssetClass: model.AssetClassTreasury,
		Columns:    map[Field]int{FieldProduct: 0, FieldQuantity: 5, FieldAppliedValue: 9, FieldUpdatedValue: 12},
		Treasury:   true,
	},
}

// DividendLayout maps the "Proventos Recebidos" sheet.
var DividendLayout = Layout{
	Sheet: SheetDividends,
	Columns: map[Field]int{
		FieldProduct:     0,
		FieldPaymentDate: 1,
		FieldEventType:   2,
		FieldQuantity:    4,
		FieldUnitPrice:   5,
		FieldNetValue:    6,
	},
}

// dataRows drops the header row.
func dataRows(rows []workbook.Row) []workbook.Row {
	if len(rows) <= headerRowsCount {
		return nil
	}
	return rows[headerRowsCount:]
}
