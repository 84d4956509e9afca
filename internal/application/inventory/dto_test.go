package inventory

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountLineInput_DecodesNumberAndString(t *testing.T) {
	payload := `{"entries":[
		{"material_code":"MAT-001","location":"E001","real_count":5},
		{"material_code":"MAT-002","location":"E002","real_count":12.5},
		{"material_code":"MAT-003","location":"E003","real_count":"118"},
		{"material_code":"MAT-004","location":"E004","real_count":null},
		{"material_code":"MAT-005","location":"E005"}
	]}`

	var req struct {
		Entries []CountLineInput `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	require.Len(t, req.Entries, 5)

	assert.Equal(t, "5", req.Entries[0].RealCount.String())
	assert.Equal(t, "12.5", req.Entries[1].RealCount.String())
	assert.Equal(t, "118", req.Entries[2].RealCount.String())
	assert.Equal(t, "", req.Entries[3].RealCount.String())
	assert.Equal(t, "", req.Entries[4].RealCount.String())
}

func TestCountValue_RejectsMalformedJSON(t *testing.T) {
	var v CountValue
	err := v.UnmarshalJSON([]byte(`"unterminated`))
	assert.Error(t, err)
}
