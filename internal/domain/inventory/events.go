package inventory

import (
	"github.com/wms/backend/internal/domain/shared"
)

// Event types published by the inventory domain
const (
	EventTypeSnapshotReplaced = "inventory.snapshot.replaced"
	EventTypeCountSaved       = "inventory.count.saved"
)

// SnapshotReplacedEvent is published when an upload replaces the system
// snapshot wholesale.
type SnapshotReplacedEvent struct {
	shared.BaseDomainEvent
	Label       string `json:"label"`
	RowCount    int    `json:"row_count"`
	SkippedRows int    `json:"skipped_rows"`
}

// NewSnapshotReplacedEvent creates a SnapshotReplacedEvent
func NewSnapshotReplacedEvent(s *Snapshot) *SnapshotReplacedEvent {
	return &SnapshotReplacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSnapshotReplaced, "Snapshot", s.ID),
		Label:           s.Label,
		RowCount:        s.RowCount,
		SkippedRows:     s.SkippedRows,
	}
}
