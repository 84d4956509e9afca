package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteTable_EmptyProducesPlaceholder(t *testing.T) {
	buf, err := WriteTable(Table{Sheet: "Discrepancias", StatusColumn: -1})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Discrepancias"}, f.GetSheetList())
	rows, err := f.GetRows("Discrepancias")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"SIN DATOS"}, rows[0])
}

func TestWriteTable_RoundTripsValues(t *testing.T) {
	table := Table{
		Sheet:        "Discrepancias",
		Headers:      []string{"Código Material", "Ubicación", "Estado"},
		StatusColumn: 2,
		Rows: [][]string{
			{"M1", "E002", "OK"},
			{"M2", "E006B01", "CRITICAL_SHORT"},
			{"M3", "PATIO", "NOT_COUNTED"},
		},
	}

	buf, err := WriteTable(table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Discrepancias")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, table.Headers, rows[0])
	assert.Equal(t, table.Rows[0], rows[1])
	assert.Equal(t, table.Rows[2], rows[3])
}

func TestWriteTable_StatusRowsGetDistinctFills(t *testing.T) {
	table := Table{
		Sheet:        "Discrepancias",
		Headers:      []string{"Código Material", "Estado"},
		StatusColumn: 1,
		Rows: [][]string{
			{"M1", "OK"},
			{"M2", "SHORT"},
			{"M3", "NOT_COUNTED"},
		},
	}

	buf, err := WriteTable(table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	okStyle, err := f.GetCellStyle("Discrepancias", "A2")
	require.NoError(t, err)
	shortStyle, err := f.GetCellStyle("Discrepancias", "A3")
	require.NoError(t, err)
	plainStyle, err := f.GetCellStyle("Discrepancias", "A4")
	require.NoError(t, err)

	assert.NotEqual(t, okStyle, shortStyle)
	assert.NotEqual(t, okStyle, plainStyle)
	assert.NotEqual(t, shortStyle, plainStyle)
}

func TestWriteTable_RaggedRowsDoNotCorrupt(t *testing.T) {
	table := Table{
		Sheet:        "Listado",
		Headers:      []string{"A", "B", "C"},
		StatusColumn: -1,
		Rows: [][]string{
			{"1"},
			{"1", "2", "3"},
		},
	}

	buf, err := WriteTable(table)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Listado")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
