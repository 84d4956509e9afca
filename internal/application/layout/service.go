// Package layout implements the 2D warehouse map use cases.
package layout

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	auditapp "github.com/wms/backend/internal/application/audit"
	"github.com/wms/backend/internal/domain/audit"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/layout"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/excel"
	"go.uber.org/zap"
)

// Service implements the layout use cases
type Service struct {
	slots     layout.SlotRepository
	publisher shared.EventPublisher
	recorder  *auditapp.Recorder
	logger    *zap.Logger
}

// NewService creates the layout service. Publisher and recorder are optional.
func NewService(slots layout.SlotRepository, publisher shared.EventPublisher, recorder *auditapp.Recorder, logger *zap.Logger) *Service {
	return &Service{
		slots:     slots,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
	}
}

// UploadLayout parses an uploaded layout workbook and replaces the 2D map
// wholesale. Each slot below its safety stock publishes a critical stock
// event after the replacement commits.
func (s *Service) UploadLayout(ctx context.Context, input UploadLayoutInput) (*UploadLayoutResult, error) {
	parsed, err := excel.Parse(bytes.NewReader(input.Data), excel.SchemaLayout)
	if err != nil {
		s.logger.Warn("Layout upload rejected",
			zap.String("filename", input.Filename),
			zap.Error(err))
		return nil, shared.NewDomainError("INVALID_WORKBOOK", err.Error())
	}

	slots := make([]layout.Slot, 0, len(parsed.Rows))
	skipped := parsed.SkippedRows
	for _, row := range parsed.Rows {
		slot, err := layout.NewSlot(
			row.MaterialCode, row.MaterialText, row.BaseUnit, row.Location,
			row.OnHand, row.SafetyStock, row.MaxStock, row.MonthConsumption, row.MinLotSize)
		if err != nil {
			s.logger.Warn("Skipping invalid layout row",
				zap.String("material_code", row.MaterialCode),
				zap.String("location", row.Location),
				zap.Error(err))
			skipped++
			continue
		}
		slots = append(slots, *slot)
	}

	if err := s.slots.ReplaceAll(ctx, slots); err != nil {
		s.logger.Error("Failed to replace layout", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store layout")
	}

	events := make([]shared.DomainEvent, 0)
	critical := 0
	for i := range slots {
		if slots[i].IsCritical() {
			critical++
			events = append(events, layout.NewStockCriticalEvent(&slots[i]))
		}
	}
	events = append(events, layout.NewLayoutReplacedEvent(uuid.New(), len(slots), critical))
	s.publishEvents(ctx, events)

	s.recorder.Record(ctx, input.UploadedBy, audit.ActionLayoutUpload, "Layout",
		fmt.Sprintf("%s (%d slots, %d critical, %d skipped)", input.Filename, len(slots), critical, skipped))

	s.logger.Info("Warehouse layout replaced",
		zap.Int("slots", len(slots)),
		zap.Int("critical", critical),
		zap.Int("skipped", skipped))

	return &UploadLayoutResult{
		SlotCount:     len(slots),
		CriticalCount: critical,
		SkippedRows:   skipped,
	}, nil
}

// Map returns the per-location aggregation of the 2D map in warehouse
// walking order.
func (s *Service) Map(ctx context.Context) ([]LocationSummaryDTO, error) {
	slots, err := s.slots.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load layout", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load layout map")
	}

	summaries := layout.SummarizeByLocation(slots)
	inventory.SortByLocation(summaries, func(s layout.LocationSummary) string { return s.Location })

	dtos := make([]LocationSummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		dtos = append(dtos, LocationSummaryDTO{
			Location:    summary.Location,
			ItemCount:   summary.ItemCount,
			TotalOnHand: summary.TotalOnHand.String(),
			Status:      string(summary.Status),
		})
	}
	return dtos, nil
}

// LocationDetail returns the slots of one location
func (s *Service) LocationDetail(ctx context.Context, location string) ([]SlotDTO, error) {
	slots, err := s.slots.FindByLocation(ctx, location)
	if err != nil {
		s.logger.Error("Failed to load location detail",
			zap.String("location", location),
			zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to load location detail")
	}
	if len(slots) == 0 {
		return nil, shared.NewDomainError("NOT_FOUND", "Location not found in layout")
	}

	dtos := make([]SlotDTO, 0, len(slots))
	for i := range slots {
		slot := &slots[i]
		dtos = append(dtos, SlotDTO{
			MaterialCode:     slot.MaterialCode,
			MaterialText:     slot.MaterialText,
			BaseUnit:         slot.BaseUnit,
			Location:         slot.Location,
			OnHand:           slot.OnHand.String(),
			SafetyStock:      slot.SafetyStock.String(),
			MaxStock:         slot.MaxStock.String(),
			MonthConsumption: slot.MonthConsumption.String(),
			MinLotSize:       slot.MinLotSize.String(),
			Status:           string(slot.Status()),
		})
	}
	return dtos, nil
}

func (s *Service) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Error("Failed to publish domain events", zap.Error(err))
	}
}
