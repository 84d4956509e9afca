package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/alert"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAlertRepository implements alert.Repository using GORM
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// Save creates or updates an alert
func (r *GormAlertRepository) Save(ctx context.Context, a *alert.Alert) error {
	model := &models.AlertModel{}
	model.FromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds an alert by ID
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	var model models.AlertModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns alerts matching the filter with pagination
func (r *GormAlertRepository) FindAll(ctx context.Context, filter shared.Filter) ([]alert.Alert, int64, error) {
	var alertModels []models.AlertModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.AlertModel{})

	if state, ok := filter.Filters["state"]; ok {
		query = query.Where("state = ?", state)
	}
	if severity, ok := filter.Filters["severity"]; ok {
		query = query.Where("severity = ?", severity)
	}
	if alertType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", alertType)
	}
	if filter.Search != "" {
		query = query.Where("message ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, AlertSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	query = query.Offset((page - 1) * pageSize).Limit(pageSize)

	if err := query.Find(&alertModels).Error; err != nil {
		return nil, 0, err
	}

	alerts := make([]alert.Alert, len(alertModels))
	for i := range alertModels {
		alerts[i] = *alertModels[i].ToDomain()
	}
	return alerts, total, nil
}

// CountActive returns the number of active alerts
func (r *GormAlertRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AlertModel{}).
		Where("state = ?", alert.StateActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountActivePerWeekday groups this week's active alerts by creation weekday
// for the dashboard chart.
func (r *GormAlertRepository) CountActivePerWeekday(ctx context.Context) (map[time.Weekday]int64, error) {
	var alertModels []models.AlertModel
	weekStart := startOfWeek(time.Now())
	if err := r.db.WithContext(ctx).
		Where("state = ? AND created_at >= ?", alert.StateActive, weekStart).
		Find(&alertModels).Error; err != nil {
		return nil, err
	}

	counts := make(map[time.Weekday]int64)
	for i := range alertModels {
		counts[alertModels[i].CreatedAt.Weekday()]++
	}
	return counts, nil
}

// startOfWeek returns midnight of the Monday of t's week
func startOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -daysSinceMonday)
}

// Ensure GormAlertRepository implements Repository
var _ alert.Repository = (*GormAlertRepository)(nil)
