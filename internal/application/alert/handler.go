package alert

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wms/backend/internal/domain/alert"
	"github.com/wms/backend/internal/domain/layout"
	"github.com/wms/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CriticalStockHandler raises a high-severity alert for each slot reported
// below its safety stock by a layout upload.
type CriticalStockHandler struct {
	alerts alert.Repository
	logger *zap.Logger
}

// Ensure CriticalStockHandler implements shared.EventHandler
var _ shared.EventHandler = (*CriticalStockHandler)(nil)

// NewCriticalStockHandler creates a CriticalStockHandler
func NewCriticalStockHandler(alerts alert.Repository, logger *zap.Logger) *CriticalStockHandler {
	return &CriticalStockHandler{alerts: alerts, logger: logger}
}

// EventTypes returns the event types this handler subscribes to
func (h *CriticalStockHandler) EventTypes() []string {
	return []string{layout.EventTypeStockCritical}
}

// Handle creates the alert for one critical stock event
func (h *CriticalStockHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	critical, ok := event.(*layout.StockCriticalEvent)
	if !ok {
		return nil
	}

	message := fmt.Sprintf("Stock crítico: %s (%s) en %s, existencia %s bajo mínimo %s",
		critical.MaterialCode, critical.MaterialText, critical.Location,
		critical.OnHand, critical.SafetyStock)

	a, err := alert.NewAlert(alert.TypeCriticalStock, message, alert.SeverityHigh, "layout_upload", "")
	if err != nil {
		return err
	}

	details, err := json.Marshal(map[string]string{
		"material_code": critical.MaterialCode,
		"location":      critical.Location,
		"on_hand":       critical.OnHand,
		"safety_stock":  critical.SafetyStock,
	})
	if err == nil {
		a.WithDetails(string(details))
	}

	if err := h.alerts.Save(ctx, a); err != nil {
		h.logger.Error("Failed to save critical stock alert",
			zap.String("material_code", critical.MaterialCode),
			zap.String("location", critical.Location),
			zap.Error(err))
		return err
	}

	h.logger.Info("Critical stock alert raised",
		zap.String("material_code", critical.MaterialCode),
		zap.String("location", critical.Location))
	return nil
}
