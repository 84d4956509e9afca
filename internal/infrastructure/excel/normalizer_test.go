package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"trims whitespace", "  Ubicación  ", "ubicacion"},
		{"strips diacritics", "Código del Material", "codigo del material"},
		{"lowercases", "LOCATION", "location"},
		{"collapses underscores", "material_code", "material code"},
		{"collapses hyphens and spaces", "on-hand   quantity", "on hand quantity"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeHeader(tt.input))
		})
	}
}

func TestMapHeaders_SynonymsResolveToSameField(t *testing.T) {
	for _, spelling := range []string{"Ubicación", "ubicacion", "LOCATION"} {
		headers := []string{"Código del Material", "Texto breve de material", "Unidad de medida base", spelling, "Libre utilización"}
		mapping, err := MapHeaders(headers, SchemaInventory)
		require.NoError(t, err, "spelling %q", spelling)
		assert.Equal(t, 3, mapping[FieldLocation], "spelling %q", spelling)
	}
}

func TestMapHeaders_MissingRequiredField(t *testing.T) {
	headers := []string{"Código del Material", "Texto breve de material", "Unidad de medida base", "Libre utilización"}

	_, err := MapHeaders(headers, SchemaInventory)

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []Field{FieldLocation}, missing.Fields)
}

func TestMapHeaders_MissingFieldsAllNamed(t *testing.T) {
	_, err := MapHeaders([]string{"algo", "otra cosa"}, SchemaInventory)

	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Len(t, missing.Fields, len(SchemaInventory.Required))
}

func TestMapHeaders_UnknownHeadersIgnored(t *testing.T) {
	headers := []string{"Código del Material", "Comentario interno", "Texto breve de material", "Unidad de medida base", "Ubicación", "Libre utilización"}

	mapping, err := MapHeaders(headers, SchemaInventory)

	require.NoError(t, err)
	assert.Len(t, mapping, len(SchemaInventory.Required))
}

func TestMapHeaders_DuplicateMappingIsError(t *testing.T) {
	headers := []string{"Código del Material", "Texto breve de material", "Unidad de medida base", "Ubicación", "ubicacion", "Libre utilización"}

	_, err := MapHeaders(headers, SchemaInventory)

	var dup *DuplicateColumnError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, FieldLocation, dup.Field)
}

func TestMapHeaders_CanonicalHeadersAreFixedPoint(t *testing.T) {
	headers := make([]string, 0, len(SchemaInventory.Required))
	for _, f := range SchemaInventory.Required {
		headers = append(headers, string(f))
	}

	mapping, err := MapHeaders(headers, SchemaInventory)

	require.NoError(t, err)
	for i, f := range SchemaInventory.Required {
		assert.Equal(t, i, mapping[f])
	}
}

func TestMapHeaders_LayoutSchema(t *testing.T) {
	headers := []string{
		"Código del Material", "Texto breve de material", "Unidad de medida base",
		"Ubicación", "Stock de seguridad", "Stock máximo", "Consumo mes actual",
		"Tamaño de lote mínimo", "Libre utilización",
	}

	mapping, err := MapHeaders(headers, SchemaLayout)

	require.NoError(t, err)
	assert.Equal(t, 4, mapping[FieldSafetyStock])
	assert.Equal(t, 8, mapping[FieldOnHand])
}

func TestCoerceDecimal(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"42", "42"},
		{" 12.5 ", "12.5"},
		{"-3", "-3"},
		{"1,234.5", "1234.5"},
		{"12,5", "12.5"},
		{"", "0"},
		{"n/a", "0"},
		{"12 abc", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.True(t, CoerceDecimal(tt.input).Equal(mustDecimal(t, tt.expected)),
				"coerce %q", tt.input)
		})
	}
}
