package workbook_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Portfolio-Importer/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/testutil"
	"github.com/ndewijer/Investment-Portfolio-Importer/internal/workbook"
)

func TestExcel_TypedCells(t *testing.T) {
	data := testutil.XLSX(t,
		testutil.Sheet{Name: "Acoes", Rows: [][]any{
			{"Produto", "Quantidade"},
			{"PETR4 - PETROBRAS PN", 100.0, nil, "1.234,56", 45366},
		}},
		testutil.Sheet{Name: "BDR", Rows: [][]any{{"Produto"}}},
	)

	wb, err := workbook.Open(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	assert.Equal(t, []string{"Acoes", "BDR"}, wb.SheetNames())

	rows, err := wb.Rows("Acoes")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, workbook.Text, row.At(0).Kind)
	assert.Equal(t, "PETR4 - PETROBRAS PN", row.At(0).Text)
	assert.Equal(t, workbook.Number, row.At(1).Kind)
	assert.Equal(t, 100.0, row.At(1).Num)
	assert.True(t, row.At(2).IsBlank())
	assert.Equal(t, workbook.Text, row.At(3).Kind, "numeric-looking text stays text")
	assert.Equal(t, workbook.Number, row.At(4).Kind)
	assert.Equal(t, 45366.0, row.At(4).Num)
}

func TestExcel_MissingSheet(t *testing.T) {
	data := testutil.XLSX(t, testutil.Sheet{Name: "Acoes", Rows: [][]any{{"Produto"}}})

	wb, err := workbook.Open(bytes.NewReader(data))
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Rows("Tesouro Direto")
	assert.Error(t, err)
}

func TestOpen_NotAWorkbook(t *testing.T) {
	_, err := workbook.Open(bytes.NewReader([]byte("ticker,qty\nPETR4,100\n")))
	assert.ErrorIs(t, err, apperrors.ErrInvalidWorkbook)
}
