// Package alert implements the operational alert use cases and the event
// subscriber that raises critical stock alerts.
package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/alert"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AlertDTO is one alert for API responses
type AlertDTO struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Origin    string    `json:"origin,omitempty"`
	Username  string    `json:"username,omitempty"`
	State     string    `json:"state"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ClosedAt  *string   `json:"closed_at,omitempty"`
}

// Service implements the alert use cases
type Service struct {
	alerts alert.Repository
	logger *zap.Logger
}

// NewService creates the alert service
func NewService(alerts alert.Repository, logger *zap.Logger) *Service {
	return &Service{alerts: alerts, logger: logger}
}

// List returns alerts matching the filter, newest first
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[AlertDTO], error) {
	alerts, total, err := s.alerts.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list alerts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list alerts")
	}

	dtos := make([]AlertDTO, 0, len(alerts))
	for i := range alerts {
		dtos = append(dtos, toAlertDTO(&alerts[i]))
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Close marks one alert as handled
func (s *Service) Close(ctx context.Context, id uuid.UUID) (*AlertDTO, error) {
	a, err := s.alerts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, shared.ErrNotFound
	}

	if err := a.Close(); err != nil {
		return nil, err
	}
	if err := s.alerts.Save(ctx, a); err != nil {
		s.logger.Error("Failed to close alert",
			zap.String("alert_id", id.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to close alert")
	}

	dto := toAlertDTO(a)
	return &dto, nil
}

// CountActive returns the number of alerts still needing attention
func (s *Service) CountActive(ctx context.Context) (int64, error) {
	count, err := s.alerts.CountActive(ctx)
	if err != nil {
		s.logger.Error("Failed to count active alerts", zap.Error(err))
		return 0, shared.NewDomainError("INTERNAL_ERROR", "Failed to count alerts")
	}
	return count, nil
}

func toAlertDTO(a *alert.Alert) AlertDTO {
	dto := AlertDTO{
		ID:        a.ID,
		Type:      a.Type,
		Message:   a.Message,
		Severity:  string(a.Severity),
		Origin:    a.Origin,
		Username:  a.Username,
		State:     string(a.State),
		Details:   a.Details,
		CreatedAt: a.CreatedAt,
	}
	if a.ClosedAt != nil {
		closed := a.ClosedAt.Format(time.RFC3339)
		dto.ClosedAt = &closed
	}
	return dto
}
