// Package report implements the dashboard KPIs and the daily PDF report.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	auditapp "github.com/wms/backend/internal/application/audit"
	invapp "github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/alert"
	"github.com/wms/backend/internal/domain/audit"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/layout"
	"github.com/wms/backend/internal/domain/shared"
	infraconfig "github.com/wms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const pdfContentType = "application/pdf"

// Renderer converts a page into a PDF document
type Renderer interface {
	// RenderHTML renders an HTML document to PDF
	RenderHTML(ctx context.Context, html string) ([]byte, error)
	// RenderURL loads a URL and renders the resulting page to PDF
	RenderURL(ctx context.Context, url string) ([]byte, error)
}

// SnapshotInfo summarizes the current snapshot for the dashboard
type SnapshotInfo struct {
	Label      string    `json:"label"`
	UploadedBy string    `json:"uploaded_by"`
	RowCount   int       `json:"row_count"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// DashboardDTO carries the dashboard KPIs
type DashboardDTO struct {
	TotalLines       int64            `json:"total_lines"`
	LinesByLevel     map[string]int64 `json:"lines_by_level"`
	SlotsByStatus    map[string]int64 `json:"slots_by_status"`
	ActiveAlerts     int64            `json:"active_alerts"`
	AlertsPerWeekday map[string]int64 `json:"alerts_per_weekday"`
	CurrentSnapshot  *SnapshotInfo    `json:"current_snapshot,omitempty"`
}

// DailyReportResult describes one generated daily report
type DailyReportResult struct {
	FileKey     string    `json:"file_key"`
	GeneratedAt time.Time `json:"generated_at"`
}

// Service implements the dashboard and daily report use cases
type Service struct {
	items     inventory.ItemRepository
	snapshots inventory.SnapshotRepository
	slots     layout.SlotRepository
	alerts    alert.Repository
	renderer  Renderer
	storage   invapp.ObjectStorageService
	recorder  *auditapp.Recorder
	config    *infraconfig.ReportConfig
	logger    *zap.Logger
}

// NewService creates the report service. Renderer, storage and recorder are
// optional; without a renderer the daily report is unavailable.
func NewService(
	items inventory.ItemRepository,
	snapshots inventory.SnapshotRepository,
	slots layout.SlotRepository,
	alerts alert.Repository,
	renderer Renderer,
	storage invapp.ObjectStorageService,
	recorder *auditapp.Recorder,
	config *infraconfig.ReportConfig,
	logger *zap.Logger,
) *Service {
	return &Service{
		items:     items,
		snapshots: snapshots,
		slots:     slots,
		alerts:    alerts,
		renderer:  renderer,
		storage:   storage,
		recorder:  recorder,
		config:    config,
		logger:    logger,
	}
}

// Dashboard aggregates the KPIs shown on the landing page
func (s *Service) Dashboard(ctx context.Context) (*DashboardDTO, error) {
	total, err := s.items.CountLines(ctx)
	if err != nil {
		s.logger.Error("Failed to count inventory lines", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build dashboard")
	}

	byLevel, err := s.items.CountByLevel(ctx)
	if err != nil {
		s.logger.Error("Failed to count lines by level", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build dashboard")
	}

	byStatus, err := s.slots.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("Failed to count slots by status", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build dashboard")
	}

	activeAlerts, err := s.alerts.CountActive(ctx)
	if err != nil {
		s.logger.Error("Failed to count active alerts", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build dashboard")
	}

	perWeekday, err := s.alerts.CountActivePerWeekday(ctx)
	if err != nil {
		s.logger.Error("Failed to count alerts per weekday", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to build dashboard")
	}

	dto := &DashboardDTO{
		TotalLines:       total,
		LinesByLevel:     make(map[string]int64, len(byLevel)),
		SlotsByStatus:    make(map[string]int64, len(byStatus)),
		ActiveAlerts:     activeAlerts,
		AlertsPerWeekday: make(map[string]int64, len(perWeekday)),
	}
	for level, n := range byLevel {
		dto.LinesByLevel[string(level)] = n
	}
	for status, n := range byStatus {
		dto.SlotsByStatus[string(status)] = n
	}
	for day, n := range perWeekday {
		dto.AlertsPerWeekday[day.String()] = n
	}

	current, err := s.snapshots.Current(ctx)
	if err != nil && err != shared.ErrNotFound {
		s.logger.Warn("Failed to load current snapshot for dashboard", zap.Error(err))
	}
	if current != nil {
		dto.CurrentSnapshot = &SnapshotInfo{
			Label:      current.Label,
			UploadedBy: current.UploadedBy,
			RowCount:   current.RowCount,
			UploadedAt: current.CreatedAt,
		}
	}

	return dto, nil
}

// GenerateDailyReport renders the dashboard into a PDF and archives it in
// object storage. Returns the storage key of the generated document.
func (s *Service) GenerateDailyReport(ctx context.Context, triggeredBy string) (*DailyReportResult, error) {
	if s.renderer == nil {
		return nil, shared.NewDomainError("REPORT_UNAVAILABLE", "PDF rendering is not configured")
	}

	if s.config != nil && s.config.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RenderTimeout)
		defer cancel()
	}

	var pdf []byte
	var err error
	if s.config != nil && s.config.PageURL != "" {
		pdf, err = s.renderer.RenderURL(ctx, s.config.PageURL)
	} else {
		dashboard, dashErr := s.Dashboard(ctx)
		if dashErr != nil {
			return nil, dashErr
		}
		html, buildErr := buildReportHTML(dashboard, time.Now())
		if buildErr != nil {
			s.logger.Error("Failed to build daily report page", zap.Error(buildErr))
			return nil, shared.NewDomainError("REPORT_FAILED", "Failed to build daily report")
		}
		pdf, err = s.renderer.RenderHTML(ctx, html)
	}
	if err != nil {
		s.logger.Error("Failed to render daily report", zap.Error(err))
		return nil, shared.NewDomainError("REPORT_FAILED", "Failed to render daily report")
	}

	now := time.Now()
	key := fmt.Sprintf("reports/diario_%s.pdf", now.Format("20060102"))
	if s.storage != nil {
		if err := s.storage.Upload(ctx, key, pdf, pdfContentType); err != nil {
			s.logger.Error("Failed to archive daily report",
				zap.String("key", key),
				zap.Error(err))
			return nil, shared.NewDomainError("REPORT_FAILED", "Failed to store daily report")
		}
	}

	s.recorder.Record(ctx, triggeredBy, audit.ActionReportGenerated, "Report", key)

	s.logger.Info("Daily report generated",
		zap.String("key", key),
		zap.Int("bytes", len(pdf)))

	return &DailyReportResult{FileKey: key, GeneratedAt: now}, nil
}

// ReportDownloadURL returns a presigned URL for one generated report
func (s *Service) ReportDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if s.storage == nil {
		return "", time.Time{}, shared.NewDomainError("REPORT_UNAVAILABLE", "Report storage is not configured")
	}
	exists, err := s.storage.ObjectExists(ctx, key)
	if err != nil {
		s.logger.Error("Failed to check report existence",
			zap.String("key", key),
			zap.Error(err))
		return "", time.Time{}, shared.NewDomainError("INTERNAL_ERROR", "Failed to locate report")
	}
	if !exists {
		return "", time.Time{}, shared.ErrNotFound
	}
	return s.storage.GenerateDownloadURL(ctx, key, expiresIn)
}

var reportTemplate = template.Must(template.New("daily").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="UTF-8">
<title>Reporte diario de almacén</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 32px; color: #1a1a1a; }
h1 { font-size: 22px; border-bottom: 2px solid #2c3e50; padding-bottom: 8px; }
table { border-collapse: collapse; margin-top: 16px; }
th, td { border: 1px solid #ccc; padding: 6px 14px; font-size: 13px; text-align: left; }
th { background: #2c3e50; color: #fff; }
.meta { color: #666; font-size: 12px; }
</style>
</head>
<body>
<h1>Reporte diario de almacén</h1>
<p class="meta">Generado el {{.GeneratedAt}}</p>
{{if .Snapshot}}<p>Inventario vigente: <strong>{{.Snapshot.Label}}</strong> ({{.Snapshot.RowCount}} líneas)</p>{{end}}
<table>
<tr><th>Indicador</th><th>Valor</th></tr>
<tr><td>Líneas de inventario</td><td>{{.Dashboard.TotalLines}}</td></tr>
<tr><td>Alertas activas</td><td>{{.Dashboard.ActiveAlerts}}</td></tr>
{{range $level, $n := .Dashboard.LinesByLevel}}<tr><td>Líneas nivel {{$level}}</td><td>{{$n}}</td></tr>
{{end}}{{range $status, $n := .Dashboard.SlotsByStatus}}<tr><td>Ubicaciones {{$status}}</td><td>{{$n}}</td></tr>
{{end}}</table>
</body>
</html>`))

func buildReportHTML(dashboard *DashboardDTO, generatedAt time.Time) (string, error) {
	var buf bytes.Buffer
	err := reportTemplate.Execute(&buf, struct {
		GeneratedAt string
		Dashboard   *DashboardDTO
		Snapshot    *SnapshotInfo
	}{
		GeneratedAt: generatedAt.Format("02/01/2006 15:04"),
		Dashboard:   dashboard,
		Snapshot:    dashboard.CurrentSnapshot,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
