package inventory

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// UploadSnapshotInput contains one uploaded inventory workbook
type UploadSnapshotInput struct {
	Data       []byte
	Filename   string
	UploadedBy string
}

// UploadSnapshotResult summarizes an accepted upload
type UploadSnapshotResult struct {
	SnapshotID  uuid.UUID `json:"snapshot_id"`
	Label       string    `json:"label"`
	RowCount    int       `json:"row_count"`
	SkippedRows int       `json:"skipped_rows"`
}

// ItemDTO is one snapshot line for API responses. Quantities are serialized
// as strings so clients never lose decimal precision.
type ItemDTO struct {
	ID           uuid.UUID `json:"id"`
	MaterialCode string    `json:"material_code"`
	MaterialText string    `json:"material_text"`
	BaseUnit     string    `json:"base_unit"`
	Location     string    `json:"location"`
	OnHand       string    `json:"on_hand"`
	Level        string    `json:"level"`
}

// CountSheetRow is one line of the physical count tally sheet. RealCount
// carries the previously saved count when one exists.
type CountSheetRow struct {
	MaterialCode string  `json:"material_code"`
	MaterialText string  `json:"material_text"`
	BaseUnit     string  `json:"base_unit"`
	Location     string  `json:"location"`
	SystemQty    string  `json:"system_qty"`
	RealCount    *string `json:"real_count,omitempty"`
}

// CountValue is a counted quantity as submitted by the client. Scanner
// clients send JSON numbers, the web form sends strings; both decode to the
// raw text and pass through the shared numeric coercion, so a malformed
// value degrades to zero instead of rejecting the whole batch.
type CountValue string

// UnmarshalJSON accepts a JSON string, number or null.
func (v *CountValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		*v = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = CountValue(s)
		return nil
	}
	*v = CountValue(trimmed)
	return nil
}

// String returns the submitted text as received.
func (v CountValue) String() string { return string(v) }

// CountLineInput is one submitted count line
type CountLineInput struct {
	MaterialCode string     `json:"material_code" binding:"required"`
	Location     string     `json:"location" binding:"required"`
	RealCount    CountValue `json:"real_count"`
}

// SaveCountInput contains a full count submission
type SaveCountInput struct {
	Entries  []CountLineInput
	Username string
}

// SaveCountResult summarizes a saved count
type SaveCountResult struct {
	Saved   int `json:"saved"`
	Skipped int `json:"skipped"`
}

// ReconciledRowDTO is one classified reconciliation row
type ReconciledRowDTO struct {
	MaterialCode string `json:"material_code"`
	MaterialText string `json:"material_text"`
	BaseUnit     string `json:"base_unit"`
	Location     string `json:"location"`
	SystemQty    string `json:"system_qty"`
	CountedQty   string `json:"counted_qty,omitempty"`
	Difference   string `json:"difference"`
	Status       string `json:"status"`
	StatusLabel  string `json:"status_label"`
}

// ReconciliationResult carries the classified rows plus per-status totals
type ReconciliationResult struct {
	Rows           []ReconciledRowDTO `json:"rows"`
	Totals         map[string]int     `json:"totals"`
	SkippedEntries int                `json:"skipped_entries"`
}

// ExportInput contains the count submission to export
type ExportInput struct {
	Entries  []CountLineInput
	Username string
}

// ExportResult carries the generated workbook
type ExportResult struct {
	Content  []byte
	Filename string
}

// SnapshotDTO is one snapshot history row
type SnapshotDTO struct {
	ID          uuid.UUID `json:"id"`
	Label       string    `json:"label"`
	UploadedBy  string    `json:"uploaded_by"`
	FileKey     string    `json:"file_key,omitempty"`
	RowCount    int       `json:"row_count"`
	SkippedRows int       `json:"skipped_rows"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
