package handler

import (
	"github.com/gin-gonic/gin"
	auditapp "github.com/wms/backend/internal/application/audit"
	"github.com/wms/backend/internal/domain/shared"
)

// AuditHandler handles audit trail endpoints
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.Service) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// AuditListQuery represents query parameters for listing audit entries
// @Name HandlerAuditListQuery
type AuditListQuery struct {
	Actor    string `form:"actor" binding:"omitempty,max=100"`
	Action   string `form:"action" binding:"omitempty,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// List godoc
// @ID           listAuditEntries
// @Summary      List audit trail entries
// @Description  Get a paginated audit trail, newest first
// @Tags         audit
// @Produce      json
// @Param        actor query string false "Filter by actor username"
// @Param        action query string false "Filter by action"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]auditapp.EntryDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	var query AuditListQuery
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
	filters := map[string]interface{}{}
	if query.Actor != "" {
		filters["actor"] = query.Actor
	}
	if query.Action != "" {
		filters["action"] = query.Action
	}
	if len(filters) > 0 {
		filter.Filters = filters
	}

	result, err := h.auditService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}
