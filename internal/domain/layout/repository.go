package layout

import "context"

// SlotRepository provides access to the 2D map slots
type SlotRepository interface {
	// ReplaceAll atomically replaces the whole layout with the given slots
	ReplaceAll(ctx context.Context, slots []Slot) error
	FindAll(ctx context.Context) ([]Slot, error)
	FindByLocation(ctx context.Context, location string) ([]Slot, error)
	CountByStatus(ctx context.Context) (map[SlotStatus]int64, error)
}
