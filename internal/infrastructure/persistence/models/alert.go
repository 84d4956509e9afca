package models

import (
	"time"

	"github.com/wms/backend/internal/domain/alert"
)

// AlertModel is the persistence model for the Alert domain entity.
type AlertModel struct {
	AggregateModel
	Type     string         `gorm:"type:varchar(50);not null;index"`
	Message  string         `gorm:"type:varchar(500);not null"`
	Severity alert.Severity `gorm:"type:varchar(20);not null;default:'info'"`
	Origin   string         `gorm:"type:varchar(100)"`
	Username string         `gorm:"type:varchar(100)"`
	State    alert.State    `gorm:"type:varchar(20);not null;default:'active';index"`
	Details  string         `gorm:"type:text"`
	ClosedAt *time.Time
}

// TableName returns the table name for GORM
func (AlertModel) TableName() string {
	return "alerts"
}

// ToDomain converts the persistence model to a domain Alert.
func (m *AlertModel) ToDomain() *alert.Alert {
	a := &alert.Alert{
		Type:     m.Type,
		Message:  m.Message,
		Severity: m.Severity,
		Origin:   m.Origin,
		Username: m.Username,
		State:    m.State,
		Details:  m.Details,
		ClosedAt: m.ClosedAt,
	}
	m.PopulateAggregateRoot(&a.BaseAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Alert.
func (m *AlertModel) FromDomain(a *alert.Alert) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Type = a.Type
	m.Message = a.Message
	m.Severity = a.Severity
	m.Origin = a.Origin
	m.Username = a.Username
	m.State = a.State
	m.Details = a.Details
	m.ClosedAt = a.ClosedAt
}
