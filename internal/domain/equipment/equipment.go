// Package equipment models the warehouse equipment registry.
package equipment

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/shared"
)

// Equipment is one registered piece of warehouse equipment
type Equipment struct {
	shared.BaseAggregateRoot
	Code        string
	Description string
	Area        string
}

// NewEquipment creates an equipment record
func NewEquipment(code, description, area string) (*Equipment, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_EQUIPMENT_CODE", "Equipment code cannot be empty")
	}

	return &Equipment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Description:       strings.TrimSpace(description),
		Area:              strings.TrimSpace(area),
	}, nil
}

// Update changes the editable fields
func (e *Equipment) Update(description, area string) {
	e.Description = strings.TrimSpace(description)
	e.Area = strings.TrimSpace(area)
}

// Repository provides access to equipment records
type Repository interface {
	Save(ctx context.Context, equipment *Equipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Equipment, error)
	FindByCode(ctx context.Context, code string) (*Equipment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Equipment, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
