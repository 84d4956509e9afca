package models

import (
	"github.com/wms/backend/internal/domain/equipment"
)

// EquipmentModel is the persistence model for the Equipment domain entity.
type EquipmentModel struct {
	AggregateModel
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Description string `gorm:"type:varchar(300)"`
	Area        string `gorm:"type:varchar(100);index"`
}

// TableName returns the table name for GORM
func (EquipmentModel) TableName() string {
	return "equipment"
}

// ToDomain converts the persistence model to a domain Equipment entity.
func (m *EquipmentModel) ToDomain() *equipment.Equipment {
	e := &equipment.Equipment{
		Code:        m.Code,
		Description: m.Description,
		Area:        m.Area,
	}
	m.PopulateAggregateRoot(&e.BaseAggregateRoot)
	return e
}

// FromDomain populates the persistence model from a domain Equipment entity.
func (m *EquipmentModel) FromDomain(e *equipment.Equipment) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.Code = e.Code
	m.Description = e.Description
	m.Area = e.Area
}
