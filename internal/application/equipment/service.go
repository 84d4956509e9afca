// Package equipment implements the equipment registry use cases.
package equipment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wms/backend/internal/domain/equipment"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// EquipmentDTO is one equipment record for API responses
type EquipmentDTO struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	Area        string    `json:"area,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateEquipmentInput contains a new equipment record
type CreateEquipmentInput struct {
	Code        string `json:"code" binding:"required,max=50"`
	Description string `json:"description" binding:"max=255"`
	Area        string `json:"area" binding:"max=100"`
}

// UpdateEquipmentInput contains the editable fields
type UpdateEquipmentInput struct {
	Description string `json:"description" binding:"max=255"`
	Area        string `json:"area" binding:"max=100"`
}

// Service implements the equipment use cases
type Service struct {
	repo   equipment.Repository
	logger *zap.Logger
}

// NewService creates the equipment service
func NewService(repo equipment.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Create registers a new piece of equipment. Codes are unique.
func (s *Service) Create(ctx context.Context, input CreateEquipmentInput) (*EquipmentDTO, error) {
	existing, err := s.repo.FindByCode(ctx, input.Code)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Error("Failed to check equipment code", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create equipment")
	}
	if existing != nil {
		return nil, shared.NewDomainError("EQUIPMENT_CODE_EXISTS", "Equipment code is already registered")
	}

	e, err := equipment.NewEquipment(input.Code, input.Description, input.Area)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, e); err != nil {
		s.logger.Error("Failed to save equipment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create equipment")
	}

	s.logger.Info("Equipment registered", zap.String("code", e.Code))
	dto := toEquipmentDTO(e)
	return &dto, nil
}

// GetByID returns one equipment record
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*EquipmentDTO, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, shared.ErrNotFound
	}
	dto := toEquipmentDTO(e)
	return &dto, nil
}

// List returns equipment records matching the filter
func (s *Service) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[EquipmentDTO], error) {
	records, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list equipment", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list equipment")
	}

	dtos := make([]EquipmentDTO, 0, len(records))
	for i := range records {
		dtos = append(dtos, toEquipmentDTO(&records[i]))
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes the editable fields of one equipment record
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateEquipmentInput) (*EquipmentDTO, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, shared.ErrNotFound
	}

	e.Update(input.Description, input.Area)
	if err := s.repo.Save(ctx, e); err != nil {
		s.logger.Error("Failed to update equipment",
			zap.String("equipment_id", id.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update equipment")
	}

	dto := toEquipmentDTO(e)
	return &dto, nil
}

// Delete removes one equipment record
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if e == nil {
		return shared.ErrNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete equipment",
			zap.String("equipment_id", id.String()),
			zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to delete equipment")
	}

	s.logger.Info("Equipment deleted", zap.String("code", e.Code))
	return nil
}

func toEquipmentDTO(e *equipment.Equipment) EquipmentDTO {
	return EquipmentDTO{
		ID:          e.ID,
		Code:        e.Code,
		Description: e.Description,
		Area:        e.Area,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
