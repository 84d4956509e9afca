package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	alertapp "github.com/wms/backend/internal/application/alert"
	"github.com/wms/backend/internal/domain/shared"
)

// AlertHandler handles stock alert endpoints
type AlertHandler struct {
	BaseHandler
	alertService *alertapp.Service
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(alertService *alertapp.Service) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
	}
}

// AlertListQuery represents query parameters for listing alerts
// @Name HandlerAlertListQuery
type AlertListQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=active closed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// List godoc
// @ID           listAlerts
// @Summary      List alerts
// @Description  Get a paginated list of stock alerts, newest first
// @Tags         alerts
// @Produce      json
// @Param        status query string false "Alert status" Enums(active, closed)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]alertapp.AlertDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	var query AlertListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	filter := shared.DefaultFilter()
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.Status != "" {
		filter.Filters = map[string]interface{}{"status": query.Status}
	}

	result, err := h.alertService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Close godoc
// @ID           closeAlert
// @Summary      Close an alert
// @Description  Mark an alert as closed
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Success      200 {object} APIResponse[alertapp.AlertDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts/{id}/close [post]
func (h *AlertHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid alert ID")
		return
	}

	alert, err := h.alertService.Close(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alert)
}

// CountActive godoc
// @ID           countActiveAlerts
// @Summary      Count active alerts
// @Description  Get the number of open alerts
// @Tags         alerts
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /alerts/stats/active [get]
func (h *AlertHandler) CountActive(c *gin.Context) {
	count, err := h.alertService.CountActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"count": count})
}
