package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// insertBatchSize bounds multi-row inserts so large uploads stay within
// the driver's parameter limit.
const insertBatchSize = 500

// GormInventoryRepository implements inventory.ItemRepository using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GormInventoryRepository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// ReplaceAll replaces the whole snapshot in one transaction: previous lines
// and saved counts are dropped, then the new snapshot header and its lines
// are inserted.
func (r *GormInventoryRepository) ReplaceAll(ctx context.Context, snapshot *inventory.Snapshot, items []inventory.InventoryItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.InventoryItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("1 = 1").Delete(&models.CountEntryModel{}).Error; err != nil {
			return err
		}

		snapshotModel := &models.SnapshotModel{}
		snapshotModel.FromDomain(snapshot)
		if err := tx.Create(snapshotModel).Error; err != nil {
			return err
		}

		if len(items) == 0 {
			return nil
		}
		itemModels := make([]models.InventoryItemModel, len(items))
		for i := range items {
			itemModels[i].FromDomain(&items[i])
			itemModels[i].SnapshotID = snapshot.ID
		}
		return tx.CreateInBatches(itemModels, insertBatchSize).Error
	})
}

// FindAll returns all lines of the current snapshot
func (r *GormInventoryRepository) FindAll(ctx context.Context) ([]inventory.InventoryItem, error) {
	var itemModels []models.InventoryItemModel
	if err := r.db.WithContext(ctx).
		Order("material_code ASC, location ASC").
		Find(&itemModels).Error; err != nil {
		return nil, err
	}

	items := make([]inventory.InventoryItem, len(itemModels))
	for i := range itemModels {
		items[i] = *itemModels[i].ToDomain()
	}
	return items, nil
}

// CountLines returns the number of lines in the current snapshot
func (r *GormInventoryRepository) CountLines(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryItemModel{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByLevel returns line counts grouped by stock level. Classification
// stays in the domain so the thresholds live in one place.
func (r *GormInventoryRepository) CountByLevel(ctx context.Context) (map[inventory.StockLevel]int64, error) {
	items, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[inventory.StockLevel]int64)
	for i := range items {
		counts[items[i].Level()]++
	}
	return counts, nil
}

// GormSnapshotRepository implements inventory.SnapshotRepository using GORM
type GormSnapshotRepository struct {
	db *gorm.DB
}

// NewGormSnapshotRepository creates a new GormSnapshotRepository
func NewGormSnapshotRepository(db *gorm.DB) *GormSnapshotRepository {
	return &GormSnapshotRepository{db: db}
}

// FindAll returns the snapshot history, newest first
func (r *GormSnapshotRepository) FindAll(ctx context.Context) ([]inventory.Snapshot, error) {
	var snapshotModels []models.SnapshotModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&snapshotModels).Error; err != nil {
		return nil, err
	}

	snapshots := make([]inventory.Snapshot, len(snapshotModels))
	for i := range snapshotModels {
		snapshots[i] = *snapshotModels[i].ToDomain()
	}
	return snapshots, nil
}

// FindByID finds a snapshot by ID
func (r *GormSnapshotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Snapshot, error) {
	var model models.SnapshotModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Current returns the most recent snapshot
func (r *GormSnapshotRepository) Current(ctx context.Context) (*inventory.Snapshot, error) {
	var model models.SnapshotModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// GormCountRepository implements inventory.CountRepository using GORM
type GormCountRepository struct {
	db *gorm.DB
}

// NewGormCountRepository creates a new GormCountRepository
func NewGormCountRepository(db *gorm.DB) *GormCountRepository {
	return &GormCountRepository{db: db}
}

// ReplaceAll replaces the saved count wholesale
func (r *GormCountRepository) ReplaceAll(ctx context.Context, entries []inventory.CountEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CountEntryModel{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		entryModels := make([]models.CountEntryModel, len(entries))
		for i := range entries {
			entryModels[i].FromDomain(&entries[i])
		}
		return tx.CreateInBatches(entryModels, insertBatchSize).Error
	})
}

// FindAll returns the saved count entries in submission order
func (r *GormCountRepository) FindAll(ctx context.Context) ([]inventory.CountEntry, error) {
	var entryModels []models.CountEntryModel
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]inventory.CountEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, nil
}

// DeleteAll clears the saved count
func (r *GormCountRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&models.CountEntryModel{}).Error
}

// Ensure interfaces are implemented
var (
	_ inventory.ItemRepository     = (*GormInventoryRepository)(nil)
	_ inventory.SnapshotRepository = (*GormSnapshotRepository)(nil)
	_ inventory.CountRepository    = (*GormCountRepository)(nil)
)
