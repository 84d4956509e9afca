package inventory

import (
	"context"

	"github.com/google/uuid"
)

// ItemRepository provides access to the current snapshot's inventory lines
type ItemRepository interface {
	// ReplaceAll atomically replaces the snapshot table with the given
	// lines and records the new snapshot. Saved counts are cleared in the
	// same transaction so a stale count never reconciles against a fresh
	// snapshot.
	ReplaceAll(ctx context.Context, snapshot *Snapshot, items []InventoryItem) error
	FindAll(ctx context.Context) ([]InventoryItem, error)
	CountLines(ctx context.Context) (int64, error)
	CountByLevel(ctx context.Context) (map[StockLevel]int64, error)
}

// SnapshotRepository provides access to snapshot history
type SnapshotRepository interface {
	FindAll(ctx context.Context) ([]Snapshot, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	Current(ctx context.Context) (*Snapshot, error)
}

// CountRepository stores the last saved physical count
type CountRepository interface {
	// ReplaceAll replaces the saved count wholesale
	ReplaceAll(ctx context.Context, entries []CountEntry) error
	FindAll(ctx context.Context) ([]CountEntry, error)
	DeleteAll(ctx context.Context) error
}
