// Package audit records who did what: logins, uploads, count saves and
// report exports.
package audit

import (
	"context"

	"github.com/wms/backend/internal/domain/shared"
)

// Actions recorded in the audit trail
const (
	ActionLogin           = "login"
	ActionLoginFailed     = "login_failed"
	ActionSnapshotUpload  = "snapshot_upload"
	ActionLayoutUpload    = "layout_upload"
	ActionCountSaved      = "count_saved"
	ActionExport          = "export_discrepancies"
	ActionReportGenerated = "report_generated"
)

// Entry is one audit trail record
type Entry struct {
	shared.BaseEntity
	Actor  string
	Action string
	Entity string
	Detail string
}

// NewEntry creates an audit entry
func NewEntry(actor, action, entity, detail string) *Entry {
	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		Actor:      actor,
		Action:     action,
		Entity:     entity,
		Detail:     detail,
	}
}

// Repository stores audit entries
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
	FindAll(ctx context.Context, filter shared.Filter) ([]Entry, int64, error)
}
