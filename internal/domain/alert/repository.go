package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Repository provides access to alerts
type Repository interface {
	Save(ctx context.Context, alert *Alert) error
	FindByID(ctx context.Context, id uuid.UUID) (*Alert, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Alert, int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountActivePerWeekday(ctx context.Context) (map[time.Weekday]int64, error)
}
