// Package inventory implements the snapshot, count and reconciliation use
// cases on top of the inventory domain.
package inventory

import (
	"bytes"
	"context"
	"fmt"
	"time"

	auditapp "github.com/wms/backend/internal/application/audit"
	"github.com/wms/backend/internal/domain/audit"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/excel"
	"github.com/wms/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// XLSXContentType is the MIME type of generated and archived workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// exportHeaders are the discrepancy report columns, in display order
var exportHeaders = []string{
	"Código", "Descripción", "UM", "Ubicación",
	"Stock Sistema", "Conteo Real", "Diferencia", "Estado",
}

// exportStatusColumn drives row fill colors in the generated workbook
const exportStatusColumn = 7

// Service implements the inventory use cases
type Service struct {
	items     inventory.ItemRepository
	snapshots inventory.SnapshotRepository
	counts    inventory.CountRepository
	storage   ObjectStorageService
	publisher shared.EventPublisher
	recorder  *auditapp.Recorder
	logger    *zap.Logger
}

// NewService creates the inventory service. Storage, publisher and recorder
// are optional.
func NewService(
	items inventory.ItemRepository,
	snapshots inventory.SnapshotRepository,
	counts inventory.CountRepository,
	storage ObjectStorageService,
	publisher shared.EventPublisher,
	recorder *auditapp.Recorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		items:     items,
		snapshots: snapshots,
		counts:    counts,
		storage:   storage,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
	}
}

// UploadSnapshot parses an uploaded workbook and replaces the system
// snapshot wholesale. The uploaded bytes are archived to object storage;
// archival failures degrade to a warning, never a rejected upload.
func (s *Service) UploadSnapshot(ctx context.Context, input UploadSnapshotInput) (*UploadSnapshotResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "upload_snapshot",
		telemetry.WithAttribute("filename", input.Filename))
	defer span.End()

	parsed, err := excel.Parse(bytes.NewReader(input.Data), excel.SchemaInventory)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Warn("Snapshot upload rejected",
			zap.String("filename", input.Filename),
			zap.Error(err))
		return nil, shared.NewDomainError("INVALID_WORKBOOK", err.Error())
	}

	snapshot := inventory.NewSnapshot(input.UploadedBy, len(parsed.Rows), parsed.SkippedRows, time.Now())

	items := make([]inventory.InventoryItem, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		item, err := inventory.NewInventoryItem(
			snapshot.ID, row.MaterialCode, row.MaterialText, row.BaseUnit, row.Location, row.OnHand)
		if err != nil {
			// Parse already drops rows with empty keys; anything left is logged and skipped
			s.logger.Warn("Skipping invalid snapshot row",
				zap.String("material_code", row.MaterialCode),
				zap.String("location", row.Location),
				zap.Error(err))
			snapshot.SkippedRows++
			continue
		}
		items = append(items, *item)
	}
	snapshot.RowCount = len(items)

	if s.storage != nil {
		key := fmt.Sprintf("snapshots/%s.xlsx", snapshot.ID)
		if err := s.storage.Upload(ctx, key, input.Data, XLSXContentType); err != nil {
			s.logger.Warn("Failed to archive uploaded workbook",
				zap.String("key", key),
				zap.Error(err))
		} else {
			snapshot.AttachFile(key)
		}
	}

	if err := s.items.ReplaceAll(ctx, snapshot, items); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to replace inventory snapshot", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to store inventory snapshot")
	}

	telemetry.AddEvent(span, "snapshot_replaced",
		"snapshot_id", snapshot.ID,
		"rows", snapshot.RowCount,
		"skipped", snapshot.SkippedRows)

	s.publishEvents(ctx, snapshot.GetDomainEvents())
	snapshot.ClearDomainEvents()

	s.recorder.Record(ctx, input.UploadedBy, audit.ActionSnapshotUpload, "Snapshot",
		fmt.Sprintf("%s (%d rows, %d skipped)", snapshot.Label, snapshot.RowCount, snapshot.SkippedRows))

	s.logger.Info("Inventory snapshot replaced",
		zap.String("snapshot_id", snapshot.ID.String()),
		zap.Int("rows", snapshot.RowCount),
		zap.Int("skipped", snapshot.SkippedRows))

	return &UploadSnapshotResult{
		SnapshotID:  snapshot.ID,
		Label:       snapshot.Label,
		RowCount:    snapshot.RowCount,
		SkippedRows: snapshot.SkippedRows,
	}, nil
}

// List returns the current snapshot lines in warehouse walking order
func (s *Service) List(ctx context.Context) ([]ItemDTO, error) {
	items, err := s.items.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list inventory items", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list inventory")
	}

	inventory.SortByLocation(items, func(i inventory.InventoryItem) string { return i.Location })

	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		item := &items[i]
		dtos = append(dtos, ItemDTO{
			ID:           item.ID,
			MaterialCode: item.MaterialCode,
			MaterialText: item.MaterialText,
			BaseUnit:     item.BaseUnit,
			Location:     item.Location,
			OnHand:       item.OnHand.String(),
			Level:        string(item.Level()),
		})
	}
	return dtos, nil
}

// CountSheet returns the tally sheet: every snapshot line in walking order,
// prefilled with the previously saved count where one exists.
func (s *Service) CountSheet(ctx context.Context) ([]CountSheetRow, error) {
	items, err := s.items.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load items for count sheet", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build count sheet")
	}

	saved, err := s.counts.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load saved count", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build count sheet")
	}

	type key struct{ material, location string }
	savedByKey := make(map[key]string, len(saved))
	for i := range saved {
		savedByKey[key{saved[i].MaterialCode, saved[i].Location}] = saved[i].RealCount.String()
	}

	inventory.SortByLocation(items, func(i inventory.InventoryItem) string { return i.Location })

	rows := make([]CountSheetRow, 0, len(items))
	for i := range items {
		item := &items[i]
		row := CountSheetRow{
			MaterialCode: item.MaterialCode,
			MaterialText: item.MaterialText,
			BaseUnit:     item.BaseUnit,
			Location:     item.Location,
			SystemQty:    item.OnHand.String(),
		}
		if v, ok := savedByKey[key{item.MaterialCode, item.Location}]; ok {
			row.RealCount = &v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SaveCount replaces the saved physical count wholesale. Structurally
// invalid entries are skipped with a warning, never fatal.
func (s *Service) SaveCount(ctx context.Context, input SaveCountInput) (*SaveCountResult, error) {
	now := time.Now()
	entries := make([]inventory.CountEntry, 0, len(input.Entries))
	skipped := 0

	for _, line := range input.Entries {
		entry, err := inventory.NewCountEntry(
			line.MaterialCode, line.Location, excel.CoerceDecimal(line.RealCount.String()), now)
		if err != nil {
			s.logger.Warn("Skipping invalid count entry",
				zap.String("material_code", line.MaterialCode),
				zap.String("location", line.Location),
				zap.Error(err))
			skipped++
			continue
		}
		entries = append(entries, *entry)
	}

	if err := s.counts.ReplaceAll(ctx, entries); err != nil {
		s.logger.Error("Failed to save count", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to save count")
	}

	s.recorder.Record(ctx, input.Username, audit.ActionCountSaved, "Count",
		fmt.Sprintf("%d entries saved, %d skipped", len(entries), skipped))

	s.logger.Info("Physical count saved",
		zap.Int("entries", len(entries)),
		zap.Int("skipped", skipped))

	return &SaveCountResult{Saved: len(entries), Skipped: skipped}, nil
}

// Reconciliation merges the current snapshot with the saved count and
// classifies every (material, location) key.
func (s *Service) Reconciliation(ctx context.Context) (*ReconciliationResult, error) {
	items, err := s.items.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load items for reconciliation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reconcile inventory")
	}

	saved, err := s.counts.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load saved count for reconciliation", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to reconcile inventory")
	}

	records := make([]inventory.CountRecord, 0, len(saved))
	for i := range saved {
		records = append(records, inventory.CountRecord{
			MaterialCode: saved[i].MaterialCode,
			Location:     saved[i].Location,
			RealCount:    saved[i].RealCount,
		})
	}

	result := inventory.Reconcile(items, records)
	return toReconciliationResult(result), nil
}

// ExportDiscrepancies reconciles the submitted count against the current
// snapshot and renders the styled discrepancy workbook.
func (s *Service) ExportDiscrepancies(ctx context.Context, input ExportInput) (*ExportResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "export_discrepancies",
		telemetry.WithAttribute("entries", len(input.Entries)))
	defer span.End()

	items, err := s.items.FindAll(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to load items for export", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to export discrepancies")
	}

	records := make([]inventory.CountRecord, 0, len(input.Entries))
	for _, line := range input.Entries {
		records = append(records, inventory.CountRecord{
			MaterialCode: line.MaterialCode,
			Location:     line.Location,
			RealCount:    excel.CoerceDecimal(line.RealCount.String()),
		})
	}

	// The workbook keeps the merge's row order: snapshot rows first, then
	// count-only rows in submission order.
	result := inventory.Reconcile(items, records)

	table := excel.Table{
		Sheet:        "Discrepancias",
		Headers:      exportHeaders,
		Rows:         make([][]string, 0, len(result.Rows)),
		StatusColumn: exportStatusColumn,
	}
	for _, row := range result.Rows {
		counted := ""
		if row.Counted {
			counted = row.CountedQty.String()
		}
		table.Rows = append(table.Rows, []string{
			row.MaterialCode,
			row.MaterialText,
			row.BaseUnit,
			row.Location,
			row.SystemQty.String(),
			counted,
			row.Difference.String(),
			row.Status.Label(),
		})
	}

	buf, err := excel.WriteTable(table)
	if err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to render discrepancy workbook", zap.Error(err))
		return nil, shared.NewDomainError("EXPORT_FAILED", "Failed to generate export")
	}

	filename := fmt.Sprintf("discrepancias_%s.xlsx", time.Now().Format("20060102_1504"))

	s.recorder.Record(ctx, input.Username, audit.ActionExport, "Reconciliation",
		fmt.Sprintf("%s (%d rows)", filename, len(result.Rows)))

	s.logger.Info("Discrepancy export generated",
		zap.String("filename", filename),
		zap.Int("rows", len(result.Rows)))

	return &ExportResult{Content: buf.Bytes(), Filename: filename}, nil
}

// History returns all snapshots, newest first
func (s *Service) History(ctx context.Context) ([]SnapshotDTO, error) {
	snapshots, err := s.snapshots.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list snapshots", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to list snapshot history")
	}

	dtos := make([]SnapshotDTO, 0, len(snapshots))
	for i := range snapshots {
		snap := &snapshots[i]
		dtos = append(dtos, SnapshotDTO{
			ID:          snap.ID,
			Label:       snap.Label,
			UploadedBy:  snap.UploadedBy,
			FileKey:     snap.FileKey,
			RowCount:    snap.RowCount,
			SkippedRows: snap.SkippedRows,
			UploadedAt:  snap.CreatedAt,
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

func toReconciliationResult(result inventory.ReconcileResult) *ReconciliationResult {
	out := &ReconciliationResult{
		Rows:           make([]ReconciledRowDTO, 0, len(result.Rows)),
		Totals:         make(map[string]int),
		SkippedEntries: result.SkippedEntries,
	}
	for _, row := range result.Rows {
		dto := ReconciledRowDTO{
			MaterialCode: row.MaterialCode,
			MaterialText: row.MaterialText,
			BaseUnit:     row.BaseUnit,
			Location:     row.Location,
			SystemQty:    row.SystemQty.String(),
			Difference:   row.Difference.String(),
			Status:       string(row.Status),
			StatusLabel:  row.Status.Label(),
		}
		if row.Counted {
			dto.CountedQty = row.CountedQty.String()
		}
		out.Rows = append(out.Rows, dto)
		out.Totals[string(row.Status)]++
	}
	return out
}
