// Package audit provides the application-level audit trail recorder and
// query service.
package audit

import (
	"context"

	"github.com/wms/backend/internal/domain/audit"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Recorder writes audit trail entries. Recording failures are logged and
// swallowed so an audit outage never blocks the operation being audited.
type Recorder struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewRecorder creates a Recorder
func NewRecorder(repo audit.Repository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record stores one audit entry
func (r *Recorder) Record(ctx context.Context, actor, action, entity, detail string) {
	if r == nil || r.repo == nil {
		return
	}
	entry := audit.NewEntry(actor, action, entity, detail)
	if err := r.repo.Save(ctx, entry); err != nil {
		r.logger.Error("Failed to record audit entry",
			zap.String("actor", actor),
			zap.String("action", action),
			zap.Error(err))
	}
}

// Service queries the audit trail
type Service struct {
	repo   audit.Repository
	logger *zap.Logger
}

// NewService creates a Service
func NewService(repo audit.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// EntryDTO is one audit entry for API responses
type EntryDTO struct {
	ID        string `json:"id"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
	Entity    string `json:"entity,omitempty"`
	Detail    string `json:"detail,omitempty"`
	CreatedAt string `json:"created_at"`
}

// List returns audit entries matching the filter, newest first
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[EntryDTO], error) {
	entries, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list audit entries", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list audit entries")
	}

	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, EntryDTO{
			ID:        e.ID.String(),
			Actor:     e.Actor,
			Action:    e.Action,
			Entity:    e.Entity,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}
