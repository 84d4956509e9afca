package models

import (
	"github.com/wms/backend/internal/domain/audit"
)

// AuditEntryModel is the persistence model for one audit trail record.
type AuditEntryModel struct {
	BaseModel
	Actor  string `gorm:"type:varchar(100);not null;index"`
	Action string `gorm:"type:varchar(50);not null;index"`
	Entity string `gorm:"type:varchar(100)"`
	Detail string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AuditEntryModel) TableName() string {
	return "audit_entries"
}

// ToDomain converts the persistence model to a domain audit Entry.
func (m *AuditEntryModel) ToDomain() *audit.Entry {
	return &audit.Entry{
		BaseEntity: m.BaseModel.ToDomain(),
		Actor:      m.Actor,
		Action:     m.Action,
		Entity:     m.Entity,
		Detail:     m.Detail,
	}
}

// FromDomain populates the persistence model from a domain audit Entry.
func (m *AuditEntryModel) FromDomain(e *audit.Entry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.Actor = e.Actor
	m.Action = e.Action
	m.Entity = e.Entity
	m.Detail = e.Detail
}
