package layout

import (
	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Event types published by the layout domain
const (
	EventTypeStockCritical  = "layout.stock.critical"
	EventTypeLayoutReplaced = "layout.replaced"
)

// StockCriticalEvent is published for each slot below its safety stock
// after a layout upload.
type StockCriticalEvent struct {
	shared.BaseDomainEvent
	MaterialCode string `json:"material_code"`
	MaterialText string `json:"material_text"`
	Location     string `json:"location"`
	OnHand       string `json:"on_hand"`
	SafetyStock  string `json:"safety_stock"`
}

// NewStockCriticalEvent creates a StockCriticalEvent for a critical slot
func NewStockCriticalEvent(slot *Slot) *StockCriticalEvent {
	return &StockCriticalEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCritical, "Slot", slot.ID),
		MaterialCode:    slot.MaterialCode,
		MaterialText:    slot.MaterialText,
		Location:        slot.Location,
		OnHand:          slot.OnHand.String(),
		SafetyStock:     slot.SafetyStock.String(),
	}
}

// LayoutReplacedEvent is published when an upload replaces the 2D map
type LayoutReplacedEvent struct {
	shared.BaseDomainEvent
	SlotCount     int `json:"slot_count"`
	CriticalCount int `json:"critical_count"`
}

// NewLayoutReplacedEvent creates a LayoutReplacedEvent
func NewLayoutReplacedEvent(aggregateID uuid.UUID, slotCount, criticalCount int) *LayoutReplacedEvent {
	return &LayoutReplacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLayoutReplaced, "Layout", aggregateID),
		SlotCount:       slotCount,
		CriticalCount:   criticalCount,
	}
}
