package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/wms/backend/internal/application/report"
)

// downloadURLTTL is how long a presigned report download link stays valid
const downloadURLTTL = 15 * time.Minute

// ReportScheduler is the part of the cron scheduler the HTTP layer needs
type ReportScheduler interface {
	TriggerManualRun(ctx context.Context, triggeredBy string) error
	GetStatus() map[string]interface{}
}

// ReportHandler handles dashboard and daily report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.Service
	scheduler     ReportScheduler
}

// NewReportHandler creates a new ReportHandler. The scheduler is optional;
// without it manual report runs return 503.
func NewReportHandler(reportService *reportapp.Service, scheduler ReportScheduler) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		scheduler:     scheduler,
	}
}

// DownloadURLResponse carries a presigned report download link
// @Description Presigned download URL with its expiry
type DownloadURLResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Dashboard godoc
// @ID           getDashboard
// @Summary      Get dashboard KPIs
// @Description  Stock level distribution, slot status counts and alert stats
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[reportapp.DashboardDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dashboard)
}

// TriggerDailyReport godoc
// @ID           triggerDailyReport
// @Summary      Trigger the daily report
// @Description  Queue an immediate daily report generation run
// @Tags         reports
// @Produce      json
// @Success      202 {object} SuccessResponse
// @Failure      401 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/daily/run [post]
func (h *ReportHandler) TriggerDailyReport(c *gin.Context) {
	if h.scheduler == nil {
		h.Error(c, http.StatusServiceUnavailable, "SCHEDULER_UNAVAILABLE", "Report scheduler is not running")
		return
	}

	if err := h.scheduler.TriggerManualRun(c.Request.Context(), getUsername(c)); err != nil {
		h.Error(c, http.StatusServiceUnavailable, "SCHEDULER_UNAVAILABLE", "Report scheduler is not running")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"success": true, "data": gin.H{"message": "Daily report queued"}})
}

// SchedulerStatus godoc
// @ID           getReportSchedulerStatus
// @Summary      Get report scheduler status
// @Tags         reports
// @Produce      json
// @Success      200 {object} APIResponse[map[string]interface{}]
// @Failure      401 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/scheduler [get]
func (h *ReportHandler) SchedulerStatus(c *gin.Context) {
	if h.scheduler == nil {
		h.Error(c, http.StatusServiceUnavailable, "SCHEDULER_UNAVAILABLE", "Report scheduler is not running")
		return
	}

	h.Success(c, h.scheduler.GetStatus())
}

// DownloadDailyReport godoc
// @ID           downloadDailyReport
// @Summary      Get a daily report download link
// @Description  Presigned URL for an archived daily report PDF
// @Tags         reports
// @Produce      json
// @Param        date path string true "Report date (YYYYMMDD)"
// @Success      200 {object} APIResponse[DownloadURLResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/daily/{date}/download [get]
func (h *ReportHandler) DownloadDailyReport(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("20060102", date); err != nil {
		h.BadRequest(c, "Invalid report date, expected YYYYMMDD")
		return
	}

	key := fmt.Sprintf("reports/diario_%s.pdf", date)
	url, expiresAt, err := h.reportService.ReportDownloadURL(c.Request.Context(), key, downloadURLTTL)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, DownloadURLResponse{URL: url, ExpiresAt: expiresAt})
}
