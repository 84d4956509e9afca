package layout

// UploadLayoutInput contains one uploaded layout workbook
type UploadLayoutInput struct {
	Data       []byte
	Filename   string
	UploadedBy string
}

// UploadLayoutResult summarizes an accepted layout upload
type UploadLayoutResult struct {
	SlotCount     int `json:"slot_count"`
	CriticalCount int `json:"critical_count"`
	SkippedRows   int `json:"skipped_rows"`
}

// LocationSummaryDTO is one location cell of the 2D map view
type LocationSummaryDTO struct {
	Location    string `json:"location"`
	ItemCount   int    `json:"item_count"`
	TotalOnHand string `json:"total_on_hand"`
	Status      string `json:"status"`
}

// SlotDTO is one slot of a location detail view. Quantities are serialized
// as strings so clients never lose decimal precision.
type SlotDTO struct {
	MaterialCode     string `json:"material_code"`
	MaterialText     string `json:"material_text"`
	BaseUnit         string `json:"base_unit"`
	Location         string `json:"location"`
	OnHand           string `json:"on_hand"`
	SafetyStock      string `json:"safety_stock"`
	MaxStock         string `json:"max_stock"`
	MonthConsumption string `json:"month_consumption"`
	MinLotSize       string `json:"min_lot_size"`
	Status           string `json:"status"`
}
