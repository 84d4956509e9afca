package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/inventory"
)

// InventoryItemModel is the persistence model for one snapshot line.
type InventoryItemModel struct {
	AggregateModel
	SnapshotID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	MaterialCode string          `gorm:"type:varchar(50);not null;index:idx_inventory_items_key"`
	MaterialText string          `gorm:"type:varchar(200)"`
	BaseUnit     string          `gorm:"type:varchar(20)"`
	Location     string          `gorm:"type:varchar(50);not null;index:idx_inventory_items_key"`
	OnHand       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the persistence model to a domain InventoryItem.
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	item := &inventory.InventoryItem{
		SnapshotID:   m.SnapshotID,
		MaterialCode: m.MaterialCode,
		MaterialText: m.MaterialText,
		BaseUnit:     m.BaseUnit,
		Location:     m.Location,
		OnHand:       m.OnHand,
	}
	m.PopulateAggregateRoot(&item.BaseAggregateRoot)
	return item
}

// FromDomain populates the persistence model from a domain InventoryItem.
func (m *InventoryItemModel) FromDomain(i *inventory.InventoryItem) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.SnapshotID = i.SnapshotID
	m.MaterialCode = i.MaterialCode
	m.MaterialText = i.MaterialText
	m.BaseUnit = i.BaseUnit
	m.Location = i.Location
	m.OnHand = i.OnHand
}

// SnapshotModel is the persistence model for a snapshot header.
type SnapshotModel struct {
	AggregateModel
	Label       string `gorm:"type:varchar(100);not null"`
	UploadedBy  string `gorm:"type:varchar(100)"`
	FileKey     string `gorm:"type:varchar(300)"`
	RowCount    int    `gorm:"not null;default:0"`
	SkippedRows int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SnapshotModel) TableName() string {
	return "inventory_snapshots"
}

// ToDomain converts the persistence model to a domain Snapshot.
func (m *SnapshotModel) ToDomain() *inventory.Snapshot {
	s := &inventory.Snapshot{
		Label:       m.Label,
		UploadedBy:  m.UploadedBy,
		FileKey:     m.FileKey,
		RowCount:    m.RowCount,
		SkippedRows: m.SkippedRows,
	}
	m.PopulateAggregateRoot(&s.BaseAggregateRoot)
	return s
}

// FromDomain populates the persistence model from a domain Snapshot.
func (m *SnapshotModel) FromDomain(s *inventory.Snapshot) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Label = s.Label
	m.UploadedBy = s.UploadedBy
	m.FileKey = s.FileKey
	m.RowCount = s.RowCount
	m.SkippedRows = s.SkippedRows
}

// CountEntryModel is the persistence model for one saved count line.
type CountEntryModel struct {
	BaseModel
	MaterialCode string          `gorm:"type:varchar(50);not null;index:idx_count_entries_key"`
	Location     string          `gorm:"type:varchar(50);not null;index:idx_count_entries_key"`
	RealCount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CountedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CountEntryModel) TableName() string {
	return "inventory_count_entries"
}

// ToDomain converts the persistence model to a domain CountEntry.
func (m *CountEntryModel) ToDomain() *inventory.CountEntry {
	return &inventory.CountEntry{
		BaseEntity:   m.BaseModel.ToDomain(),
		MaterialCode: m.MaterialCode,
		Location:     m.Location,
		RealCount:    m.RealCount,
		CountedAt:    m.CountedAt,
	}
}

// FromDomain populates the persistence model from a domain CountEntry.
func (m *CountEntryModel) FromDomain(e *inventory.CountEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.MaterialCode = e.MaterialCode
	m.Location = e.Location
	m.RealCount = e.RealCount
	m.CountedAt = e.CountedAt
}
