package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Row is one inventory line after normalization. String keys are trimmed;
// numeric fields default to zero when the source cell is absent or unparsable.
type Row struct {
	MaterialCode     string
	MaterialText     string
	BaseUnit         string
	Location         string
	OnHand           decimal.Decimal
	SafetyStock      decimal.Decimal
	MaxStock         decimal.Decimal
	MonthConsumption decimal.Decimal
	MinLotSize       decimal.Decimal
}

// ParseResult is the outcome of normalizing one uploaded workbook
type ParseResult struct {
	Rows        []Row
	TotalRows   int
	SkippedRows int
}

// Parse reads the first worksheet of an uploaded workbook and normalizes it
// against the given schema. Rows whose material code or location is empty
// after trimming are skipped and counted, never an error. A workbook with a
// valid header row and zero data rows yields an empty result.
func Parse(r io.Reader, schema Schema) (*ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, NewMissingColumnError(schema.Required...)
	}

	mapping, err := MapHeaders(rows[0], schema)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{Rows: make([]Row, 0, len(rows)-1)}
	for _, cells := range rows[1:] {
		result.TotalRows++
		row := buildRow(cells, mapping)
		if row.MaterialCode == "" || row.Location == "" {
			result.SkippedRows++
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

func buildRow(cells []string, mapping ColumnMapping) Row {
	return Row{
		MaterialCode:     strings.TrimSpace(cellAt(cells, mapping, FieldMaterialCode)),
		MaterialText:     strings.TrimSpace(cellAt(cells, mapping, FieldMaterialText)),
		BaseUnit:         strings.TrimSpace(cellAt(cells, mapping, FieldBaseUnit)),
		Location:         strings.TrimSpace(cellAt(cells, mapping, FieldLocation)),
		OnHand:           CoerceDecimal(cellAt(cells, mapping, FieldOnHand)),
		SafetyStock:      CoerceDecimal(cellAt(cells, mapping, FieldSafetyStock)),
		MaxStock:         CoerceDecimal(cellAt(cells, mapping, FieldMaxStock)),
		MonthConsumption: CoerceDecimal(cellAt(cells, mapping, FieldMonthConsumption)),
		MinLotSize:       CoerceDecimal(cellAt(cells, mapping, FieldMinLotSize)),
	}
}

func cellAt(cells []string, mapping ColumnMapping, field Field) string {
	idx, ok := mapping[field]
	if !ok || idx >= len(cells) {
		return ""
	}
	return cells[idx]
}

// CoerceDecimal converts a raw cell value to a decimal quantity. Unparsable
// values degrade to zero so a single malformed cell never aborts an upload.
func CoerceDecimal(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	// Tolerate thousands separators and comma decimal points
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else {
		s = strings.ReplaceAll(s, ",", ".")
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	return decimal.Zero
}
