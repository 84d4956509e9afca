package persistence

import (
	"context"

	"github.com/wms/backend/internal/domain/layout"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSlotRepository implements layout.SlotRepository using GORM
type GormSlotRepository struct {
	db *gorm.DB
}

// NewGormSlotRepository creates a new GormSlotRepository
func NewGormSlotRepository(db *gorm.DB) *GormSlotRepository {
	return &GormSlotRepository{db: db}
}

// ReplaceAll replaces the whole layout in one transaction
func (r *GormSlotRepository) ReplaceAll(ctx context.Context, slots []layout.Slot) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.SlotModel{}).Error; err != nil {
			return err
		}
		if len(slots) == 0 {
			return nil
		}
		slotModels := make([]models.SlotModel, len(slots))
		for i := range slots {
			slotModels[i].FromDomain(&slots[i])
		}
		return tx.CreateInBatches(slotModels, insertBatchSize).Error
	})
}

// FindAll returns all slots of the layout
func (r *GormSlotRepository) FindAll(ctx context.Context) ([]layout.Slot, error) {
	var slotModels []models.SlotModel
	if err := r.db.WithContext(ctx).
		Order("location ASC, material_code ASC").
		Find(&slotModels).Error; err != nil {
		return nil, err
	}

	slots := make([]layout.Slot, len(slotModels))
	for i := range slotModels {
		slots[i] = *slotModels[i].ToDomain()
	}
	return slots, nil
}

// FindByLocation returns the slots at one location
func (r *GormSlotRepository) FindByLocation(ctx context.Context, location string) ([]layout.Slot, error) {
	var slotModels []models.SlotModel
	if err := r.db.WithContext(ctx).
		Where("location = ?", location).
		Order("material_code ASC").
		Find(&slotModels).Error; err != nil {
		return nil, err
	}

	slots := make([]layout.Slot, len(slotModels))
	for i := range slotModels {
		slots[i] = *slotModels[i].ToDomain()
	}
	return slots, nil
}

// CountByStatus returns slot counts grouped by status. Status depends on
// the slot's planning levels, so classification stays in the domain.
func (r *GormSlotRepository) CountByStatus(ctx context.Context) (map[layout.SlotStatus]int64, error) {
	slots, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[layout.SlotStatus]int64)
	for i := range slots {
		counts[slots[i].Status()]++
	}
	return counts, nil
}

// Ensure GormSlotRepository implements SlotRepository
var _ layout.SlotRepository = (*GormSlotRepository)(nil)
