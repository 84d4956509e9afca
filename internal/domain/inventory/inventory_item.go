package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// StockLevel classifies the on-hand quantity of a single inventory line
type StockLevel string

// Stock level classifications
const (
	StockLevelCritical StockLevel = "critical"
	StockLevelLow      StockLevel = "low"
	StockLevelMedium   StockLevel = "medium"
	StockLevelNormal   StockLevel = "normal"
)

// Stock level boundaries (inclusive upper bounds)
var (
	stockLowBound    = decimal.NewFromInt(5)
	stockMediumBound = decimal.NewFromInt(15)
)

// InventoryItem is one line of the current system snapshot: the on-hand
// quantity of a material at a warehouse location.
type InventoryItem struct {
	shared.BaseAggregateRoot
	SnapshotID   uuid.UUID
	MaterialCode string
	MaterialText string
	BaseUnit     string
	Location     string
	OnHand       decimal.Decimal
}

// NewInventoryItem creates a snapshot line. Material code and location must
// be non-empty after trimming.
func NewInventoryItem(snapshotID uuid.UUID, materialCode, materialText, baseUnit, location string, onHand decimal.Decimal) (*InventoryItem, error) {
	materialCode = strings.TrimSpace(materialCode)
	location = strings.TrimSpace(location)
	if materialCode == "" {
		return nil, shared.NewDomainError("INVALID_MATERIAL_CODE", "Material code cannot be empty")
	}
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location cannot be empty")
	}

	return &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SnapshotID:        snapshotID,
		MaterialCode:      materialCode,
		MaterialText:      strings.TrimSpace(materialText),
		BaseUnit:          strings.TrimSpace(baseUnit),
		Location:          location,
		OnHand:            onHand,
	}, nil
}

// Level classifies the line's on-hand quantity
func (i *InventoryItem) Level() StockLevel {
	switch {
	case i.OnHand.LessThanOrEqual(decimal.Zero):
		return StockLevelCritical
	case i.OnHand.LessThanOrEqual(stockLowBound):
		return StockLevelLow
	case i.OnHand.LessThanOrEqual(stockMediumBound):
		return StockLevelMedium
	default:
		return StockLevelNormal
	}
}
