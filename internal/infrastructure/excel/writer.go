package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Fill colors used by the discrepancy report
const (
	colorHeaderFill    = "1F4E78"
	colorStatusOK      = "C6EFCE"
	colorStatusShort   = "FFEB9C"
	colorStatusCrit    = "FFC7CE"
	colorStatusOver    = "BDD7EE"
	emptyPlaceholder   = "SIN DATOS"
	columnWidthPadding = 3
)

// statusFills maps status cell values to row fill colors. Both the internal
// status codes and their Spanish display labels are accepted so callers can
// export either form. NOT_COUNTED rows stay unstyled on purpose.
var statusFills = map[string]string{
	"OK":             colorStatusOK,
	"SHORT":          colorStatusShort,
	"FALTA":          colorStatusShort,
	"CRITICAL_SHORT": colorStatusCrit,
	"CRÍTICO":        colorStatusCrit,
	"OVER":           colorStatusOver,
	"SOBRA":          colorStatusOver,
}

// Table is a generic tabular result to serialize. All values are written as
// strings so spreadsheet readers never reinterpret or corrupt cell content.
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]string
	// StatusColumn is the zero-based index of the column driving row fill
	// colors, or -1 when no conditional styling applies.
	StatusColumn int
}

// WriteTable renders the table into a workbook that opens without repair
// prompts under every input. An empty row set produces a single placeholder
// row instead of a header-only sheet.
func WriteTable(t Table) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if len(t.Rows) == 0 {
		if err := f.SetCellValue(sheet, "A1", emptyPlaceholder); err != nil {
			return nil, err
		}
		return f.WriteToBuffer()
	}

	if err := writeStyledRows(f, sheet, t); err != nil {
		return nil, err
	}
	return f.WriteToBuffer()
}

func writeStyledRows(f *excelize.File, sheet string, t Table) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{colorHeaderFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	baseStyle, err := newBorderedStyle(f, "")
	if err != nil {
		return err
	}
	fillStyles := make(map[string]int, len(statusFills))

	for i, h := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for r, row := range t.Rows {
		style := baseStyle
		if t.StatusColumn >= 0 && t.StatusColumn < len(row) {
			if color, ok := statusFills[row[t.StatusColumn]]; ok {
				style, err = cachedFillStyle(f, fillStyles, color)
				if err != nil {
					return err
				}
			}
		}
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
		first, _ := excelize.CoordinatesToCellName(1, r+2)
		last, _ := excelize.CoordinatesToCellName(len(t.Headers), r+2)
		if err := f.SetCellStyle(sheet, first, last, style); err != nil {
			return err
		}
	}

	autoSizeColumns(f, sheet, t)

	lastCell, _ := excelize.CoordinatesToCellName(len(t.Headers), len(t.Rows)+1)
	return f.AutoFilter(sheet, "A1:"+lastCell, nil)
}

func newBorderedStyle(f *excelize.File, fillColor string) (int, error) {
	thin := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	style := &excelize.Style{
		Border:    thin,
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}
	if fillColor != "" {
		style.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fillColor}}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("cell style: %w", err)
	}
	return id, nil
}

func cachedFillStyle(f *excelize.File, cache map[string]int, color string) (int, error) {
	if id, ok := cache[color]; ok {
		return id, nil
	}
	id, err := newBorderedStyle(f, color)
	if err != nil {
		return 0, err
	}
	cache[color] = id
	return id, nil
}

func autoSizeColumns(f *excelize.File, sheet string, t Table) {
	for c := range t.Headers {
		maxLen := len([]rune(t.Headers[c]))
		for _, row := range t.Rows {
			if c < len(row) {
				if n := len([]rune(row[c])); n > maxLen {
					maxLen = n
				}
			}
		}
		col, _ := excelize.ColumnNumberToName(c + 1)
		// Width failures are cosmetic only
		_ = f.SetColWidth(sheet, col, col, float64(maxLen+columnWidthPadding))
	}
}
