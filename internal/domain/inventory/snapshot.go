package inventory

import (
	"fmt"
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// Snapshot is one full replacement of the system inventory table. The
// current snapshot is the latest one; older snapshots remain as history.
type Snapshot struct {
	shared.BaseAggregateRoot
	Label       string
	UploadedBy  string
	FileKey     string
	RowCount    int
	SkippedRows int
}

// NewSnapshot creates a snapshot with a human-readable timestamped label
func NewSnapshot(uploadedBy string, rowCount, skippedRows int, uploadedAt time.Time) *Snapshot {
	s := &Snapshot{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Label:             fmt.Sprintf("Inventario %s", uploadedAt.Format("02/01/2006 15:04")),
		UploadedBy:        uploadedBy,
		RowCount:          rowCount,
		SkippedRows:       skippedRows,
	}
	s.AddDomainEvent(NewSnapshotReplacedEvent(s))
	return s
}

// AttachFile records the object-storage key of the archived upload
func (s *Snapshot) AttachFile(key string) {
	s.FileKey = key
}
