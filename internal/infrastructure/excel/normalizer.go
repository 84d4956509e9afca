// Package excel parses uploaded inventory workbooks into canonical rows and
// renders tabular results back into styled spreadsheet artifacts.
package excel

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Field is a canonical column in the normalized inventory schema
type Field string

// Canonical fields recognized across upload schemas
const (
	FieldMaterialCode     Field = "material_code"
	FieldMaterialText     Field = "material_text"
	FieldBaseUnit         Field = "base_unit"
	FieldLocation         Field = "location"
	FieldOnHand           Field = "on_hand_quantity"
	FieldSafetyStock      Field = "safety_stock"
	FieldMaxStock         Field = "max_stock"
	FieldMonthConsumption Field = "month_consumption"
	FieldMinLotSize       Field = "min_lot_size"
)

// Schema declares which canonical fields an upload must provide
type Schema struct {
	Name     string
	Required []Field
	Optional []Field
}

// SchemaInventory is the base system-snapshot upload schema
var SchemaInventory = Schema{
	Name: "inventory",
	Required: []Field{
		FieldMaterialCode,
		FieldMaterialText,
		FieldBaseUnit,
		FieldLocation,
		FieldOnHand,
	},
}

// SchemaLayout is the 2D warehouse layout upload schema
var SchemaLayout = Schema{
	Name: "layout",
	Required: []Field{
		FieldMaterialCode,
		FieldMaterialText,
		FieldBaseUnit,
		FieldLocation,
		FieldSafetyStock,
		FieldMaxStock,
		FieldMonthConsumption,
		FieldMinLotSize,
	},
	Optional: []Field{
		FieldOnHand,
	},
}

// synonyms maps normalized header spellings to canonical fields. Keys must
// already be in normalized form (NormalizeHeader output).
var synonyms = map[string]Field{
	"codigo del material":  FieldMaterialCode,
	"codigo de material":   FieldMaterialCode,
	"codigo material":      FieldMaterialCode,
	"codigo":               FieldMaterialCode,
	"material":             FieldMaterialCode,
	"material code":        FieldMaterialCode,
	"material_code":        FieldMaterialCode,
	"sku":                  FieldMaterialCode,
	"texto breve de material": FieldMaterialText,
	"texto breve":             FieldMaterialText,
	"descripcion":             FieldMaterialText,
	"descripcion del material": FieldMaterialText,
	"description":              FieldMaterialText,
	"material text":            FieldMaterialText,
	"material description":     FieldMaterialText,
	"unidad de medida base": FieldBaseUnit,
	"unidad de medida":      FieldBaseUnit,
	"unidad base":           FieldBaseUnit,
	"unidad":                FieldBaseUnit,
	"um":                    FieldBaseUnit,
	"base unit":             FieldBaseUnit,
	"unit":                  FieldBaseUnit,
	"uom":                   FieldBaseUnit,
	"ubicacion":         FieldLocation,
	"ubicacion almacen": FieldLocation,
	"location":          FieldLocation,
	"bin":               FieldLocation,
	"posicion":          FieldLocation,
	"libre utilizacion":   FieldOnHand,
	"libre disponible":    FieldOnHand,
	"stock libre":         FieldOnHand,
	"stock":               FieldOnHand,
	"stock sistema":       FieldOnHand,
	"existencias":         FieldOnHand,
	"on hand":             FieldOnHand,
	"on hand quantity":    FieldOnHand,
	"quantity":            FieldOnHand,
	"qty":                 FieldOnHand,
	"unrestricted":        FieldOnHand,
	"stock de seguridad": FieldSafetyStock,
	"stock seguridad":    FieldSafetyStock,
	"safety stock":       FieldSafetyStock,
	"stock maximo":  FieldMaxStock,
	"maximo":        FieldMaxStock,
	"max stock":     FieldMaxStock,
	"maximum stock": FieldMaxStock,
	"consumo mes actual": FieldMonthConsumption,
	"consumo mensual":    FieldMonthConsumption,
	"consumo mes":        FieldMonthConsumption,
	"month consumption":  FieldMonthConsumption,
	"monthly consumption": FieldMonthConsumption,
	"tamano de lote minimo": FieldMinLotSize,
	"lote minimo":           FieldMinLotSize,
	"tamano lote minimo":    FieldMinLotSize,
	"min lot size":          FieldMinLotSize,
	"minimum lot size":      FieldMinLotSize,
}

func init() {
	// Canonical field names map to themselves so an already-normalized
	// table round-trips unchanged.
	for _, f := range []Field{
		FieldMaterialCode, FieldMaterialText, FieldBaseUnit, FieldLocation,
		FieldOnHand, FieldSafetyStock, FieldMaxStock, FieldMonthConsumption,
		FieldMinLotSize,
	} {
		synonyms[NormalizeHeader(string(f))] = f
	}
}

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// NormalizeHeader canonicalizes a raw header cell: trim, strip diacritics,
// lower-case, collapse separators and repeated whitespace to single spaces.
func NormalizeHeader(raw string) string {
	s := strings.TrimSpace(raw)
	if folded, _, err := transform.String(diacriticStripper, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)
	s = strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// ColumnMapping is the resolved source-column to canonical-field assignment
// for one upload. Indexes refer to columns of the source header row.
type ColumnMapping map[Field]int

// MapHeaders resolves raw header cells against the synonym table for the
// given schema. Headers with no match are ignored. Two headers resolving to
// the same canonical field are an error, as is any unmapped required field.
func MapHeaders(headers []string, schema Schema) (ColumnMapping, error) {
	mapping := make(ColumnMapping, len(schema.Required))
	mappedBy := make(map[Field]string, len(schema.Required))

	for i, raw := range headers {
		field, ok := synonyms[NormalizeHeader(raw)]
		if !ok {
			continue
		}
		if prev, dup := mappedBy[field]; dup {
			return nil, &DuplicateColumnError{Field: field, Headers: []string{prev, raw}}
		}
		mapping[field] = i
		mappedBy[field] = raw
	}

	var missing []Field
	for _, f := range schema.Required {
		if _, ok := mapping[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, NewMissingColumnError(missing...)
	}
	return mapping, nil
}
