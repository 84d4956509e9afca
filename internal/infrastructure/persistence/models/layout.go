package models

import (
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/layout"
)

// SlotModel is the persistence model for one layout slot.
type SlotModel struct {
	AggregateModel
	MaterialCode     string          `gorm:"type:varchar(50);not null;index"`
	MaterialText     string          `gorm:"type:varchar(200)"`
	BaseUnit         string          `gorm:"type:varchar(20)"`
	Location         string          `gorm:"type:varchar(50);not null;index"`
	OnHand           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SafetyStock      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MaxStock         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MonthConsumption decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinLotSize       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (SlotModel) TableName() string {
	return "layout_slots"
}

// ToDomain converts the persistence model to a domain Slot.
func (m *SlotModel) ToDomain() *layout.Slot {
	slot := &layout.Slot{
		MaterialCode:     m.MaterialCode,
		MaterialText:     m.MaterialText,
		BaseUnit:         m.BaseUnit,
		Location:         m.Location,
		OnHand:           m.OnHand,
		SafetyStock:      m.SafetyStock,
		MaxStock:         m.MaxStock,
		MonthConsumption: m.MonthConsumption,
		MinLotSize:       m.MinLotSize,
	}
	m.PopulateAggregateRoot(&slot.BaseAggregateRoot)
	return slot
}

// FromDomain populates the persistence model from a domain Slot.
func (m *SlotModel) FromDomain(s *layout.Slot) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.MaterialCode = s.MaterialCode
	m.MaterialText = s.MaterialText
	m.BaseUnit = s.BaseUnit
	m.Location = s.Location
	m.OnHand = s.OnHand
	m.SafetyStock = s.SafetyStock
	m.MaxStock = s.MaxStock
	m.MonthConsumption = s.MonthConsumption
	m.MinLotSize = s.MinLotSize
}
