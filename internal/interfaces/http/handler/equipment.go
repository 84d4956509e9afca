package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	equipmentapp "github.com/wms/backend/internal/application/equipment"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// EquipmentHandler handles warehouse equipment endpoints
type EquipmentHandler struct {
	BaseHandler
	equipmentService *equipmentapp.Service
}

// NewEquipmentHandler creates a new EquipmentHandler
func NewEquipmentHandler(equipmentService *equipmentapp.Service) *EquipmentHandler {
	return &EquipmentHandler{
		equipmentService: equipmentService,
	}
}

// EquipmentListQuery represents query parameters for listing equipment
// @Name HandlerEquipmentListQuery
type EquipmentListQuery struct {
	Search   string `form:"search" binding:"omitempty,max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Create godoc
// @ID           createEquipment
// @Summary      Register equipment
// @Description  Register a new piece of warehouse equipment
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        request body equipmentapp.CreateEquipmentInput true "Equipment data"
// @Success      201 {object} APIResponse[equipmentapp.EquipmentDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /equipment [post]
func (h *EquipmentHandler) Create(c *gin.Context) {
	var input equipmentapp.CreateEquipmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.equipmentService.Create(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID godoc
// @ID           getEquipmentById
// @Summary      Get equipment by ID
// @Tags         equipment
// @Produce      json
// @Param        id path string true "Equipment ID" format(uuid)
// @Success      200 {object} APIResponse[equipmentapp.EquipmentDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /equipment/{id} [get]
func (h *EquipmentHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid equipment ID")
		return
	}

	result, err := h.equipmentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List godoc
// @ID           listEquipment
// @Summary      List equipment
// @Description  Get a paginated list of registered equipment
// @Tags         equipment
// @Produce      json
// @Param        search query string false "Search by code or description"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]equipmentapp.EquipmentDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /equipment [get]
func (h *EquipmentHandler) List(c *gin.Context) {
	var query EquipmentListQuery
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
	filter.Search = query.Search

	result, err := h.equipmentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @ID           updateEquipment
// @Summary      Update equipment
// @Description  Update an equipment record's description and area
// @Tags         equipment
// @Accept       json
// @Produce      json
// @Param        id path string true "Equipment ID" format(uuid)
// @Param        request body equipmentapp.UpdateEquipmentInput true "Equipment update"
// @Success      200 {object} APIResponse[equipmentapp.EquipmentDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /equipment/{id} [put]
func (h *EquipmentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid equipment ID")
		return
	}

	var input equipmentapp.UpdateEquipmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.equipmentService.Update(c.Request.Context(), id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete godoc
// @ID           deleteEquipment
// @Summary      Delete equipment
// @Tags         equipment
// @Produce      json
// @Param        id path string true "Equipment ID" format(uuid)
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /equipment/{id} [delete]
func (h *EquipmentHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid equipment ID")
		return
	}

	if err := h.equipmentService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.MessageResponse{Message: "Equipment deleted successfully"})
}
