// Package layout models the 2D warehouse map: which material sits at each
// location and how its occupancy compares to its planning levels.
package layout

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// SlotStatus classifies one slot's occupancy against its planning levels
type SlotStatus string

// Slot statuses
const (
	StatusEmpty    SlotStatus = "empty"
	StatusNormal   SlotStatus = "normal"
	StatusLow      SlotStatus = "low"
	StatusCritical SlotStatus = "critical"
)

// statusRank orders statuses by severity for per-location aggregation
var statusRank = map[SlotStatus]int{
	StatusEmpty:    0,
	StatusNormal:   1,
	StatusLow:      2,
	StatusCritical: 3,
}

// Rank returns the severity rank of the status
func (s SlotStatus) Rank() int {
	return statusRank[s]
}

// WorstStatus returns the more severe of two statuses
func WorstStatus(a, b SlotStatus) SlotStatus {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

var lowOccupancyRatio = decimal.RequireFromString("0.5")

// Slot is one material at one location of the 2D map, with its planning
// levels from the layout upload.
type Slot struct {
	shared.BaseAggregateRoot
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

// NewSlot creates a layout slot. Material code and location must be
// non-empty after trimming.
func NewSlot(materialCode, materialText, baseUnit, location string, onHand, safetyStock, maxStock, monthConsumption, minLotSize decimal.Decimal) (*Slot, error) {
	materialCode = strings.TrimSpace(materialCode)
	location = strings.TrimSpace(location)
	if materialCode == "" {
		return nil, shared.NewDomainError("INVALID_MATERIAL_CODE", "Material code cannot be empty")
	}
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location cannot be empty")
	}

	return &Slot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MaterialCode:      materialCode,
		MaterialText:      strings.TrimSpace(materialText),
		BaseUnit:          strings.TrimSpace(baseUnit),
		Location:          location,
		OnHand:            onHand,
		SafetyStock:       safetyStock,
		MaxStock:          maxStock,
		MonthConsumption:  monthConsumption,
		MinLotSize:        minLotSize,
	}, nil
}

// Status classifies the slot. Slots without a positive maximum level have no
// meaningful occupancy ratio and report normal unless they are empty.
func (s *Slot) Status() SlotStatus {
	if s.OnHand.LessThanOrEqual(decimal.Zero) {
		return StatusEmpty
	}
	if s.MaxStock.LessThanOrEqual(decimal.Zero) {
		return StatusNormal
	}
	if s.OnHand.LessThan(s.SafetyStock) {
		return StatusCritical
	}
	if s.OnHand.Div(s.MaxStock).LessThan(lowOccupancyRatio) {
		return StatusLow
	}
	return StatusNormal
}

// IsCritical reports whether the slot is below its safety stock
func (s *Slot) IsCritical() bool {
	return s.Status() == StatusCritical
}

// LocationSummary aggregates the slots of one location for the map view
type LocationSummary struct {
	Location    string
	ItemCount   int
	TotalOnHand decimal.Decimal
	Status      SlotStatus
}

// SummarizeByLocation aggregates slots per location: item count, total
// on-hand and the worst slot status. Result order follows first appearance;
// callers apply warehouse walking order before display.
func SummarizeByLocation(slots []Slot) []LocationSummary {
	index := make(map[string]int, len(slots))
	summaries := make([]LocationSummary, 0)

	for _, slot := range slots {
		i, ok := index[slot.Location]
		if !ok {
			i = len(summaries)
			index[slot.Location] = i
			summaries = append(summaries, LocationSummary{
				Location: slot.Location,
				Status:   slot.Status(),
			})
		}
		s := &summaries[i]
		s.ItemCount++
		s.TotalOnHand = s.TotalOnHand.Add(slot.OnHand)
		s.Status = WorstStatus(s.Status, slot.Status())
	}
	return summaries
}
