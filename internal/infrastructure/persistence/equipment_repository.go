package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/equipment"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEquipmentRepository implements equipment.Repository using GORM
type GormEquipmentRepository struct {
	db *gorm.DB
}

// NewGormEquipmentRepository creates a new GormEquipmentRepository
func NewGormEquipmentRepository(db *gorm.DB) *GormEquipmentRepository {
	return &GormEquipmentRepository{db: db}
}

// Save creates or updates an equipment record
func (r *GormEquipmentRepository) Save(ctx context.Context, e *equipment.Equipment) error {
	model := &models.EquipmentModel{}
	model.FromDomain(e)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds an equipment record by ID
func (r *GormEquipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*equipment.Equipment, error) {
	var model models.EquipmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds an equipment record by its code
func (r *GormEquipmentRepository) FindByCode(ctx context.Context, code string) (*equipment.Equipment, error) {
	var model models.EquipmentModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns equipment records matching the filter with pagination
func (r *GormEquipmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]equipment.Equipment, int64, error) {
	var equipmentModels []models.EquipmentModel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.EquipmentModel{})

	if area, ok := filter.Filters["area"]; ok {
		query = query.Where("area = ?", area)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, EquipmentSortFields, "code")
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

	if err := query.Find(&equipmentModels).Error; err != nil {
		return nil, 0, err
	}

	records := make([]equipment.Equipment, len(equipmentModels))
	for i := range equipmentModels {
		records[i] = *equipmentModels[i].ToDomain()
	}
	return records, total, nil
}

// Delete removes an equipment record
func (r *GormEquipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EquipmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormEquipmentRepository implements Repository
var _ equipment.Repository = (*GormEquipmentRepository)(nil)
