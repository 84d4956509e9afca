package handler

import (
	"github.com/gin-gonic/gin"
	layoutapp "github.com/wms/backend/internal/application/layout"
)

// LayoutHandler handles warehouse layout endpoints
type LayoutHandler struct {
	BaseHandler
	layoutService *layoutapp.Service
}

// NewLayoutHandler creates a new LayoutHandler
func NewLayoutHandler(layoutService *layoutapp.Service) *LayoutHandler {
	return &LayoutHandler{
		layoutService: layoutService,
	}
}

// UploadLayout godoc
// @ID           uploadLayout
// @Summary      Upload warehouse layout
// @Description  Upload an xlsx layout export; replaces the current slot map
// @Tags         layout
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Layout workbook (.xlsx)"
// @Success      201 {object} APIResponse[layoutapp.UploadLayoutResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /layout [post]
func (h *LayoutHandler) UploadLayout(c *gin.Context) {
	data, filename, ok := h.readWorkbook(c)
	if !ok {
		return
	}

	result, err := h.layoutService.UploadLayout(c.Request.Context(), layoutapp.UploadLayoutInput{
		Data:       data,
		Filename:   filename,
		UploadedBy: getUsername(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Map godoc
// @ID           getLayoutMap
// @Summary      Get the 2D warehouse map
// @Description  Per-location summaries in warehouse walking order
// @Tags         layout
// @Produce      json
// @Success      200 {object} APIResponse[[]layoutapp.LocationSummaryDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /layout/map [get]
func (h *LayoutHandler) Map(c *gin.Context) {
	summaries, err := h.layoutService.Map(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summaries)
}

// LocationDetail godoc
// @ID           getLocationDetail
// @Summary      Get location detail
// @Description  All slots stored at one warehouse location
// @Tags         layout
// @Produce      json
// @Param        location path string true "Location code"
// @Success      200 {object} APIResponse[[]layoutapp.SlotDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /layout/locations/{location} [get]
func (h *LayoutHandler) LocationDetail(c *gin.Context) {
	location := c.Param("location")
	if location == "" {
		h.BadRequest(c, "Missing location")
		return
	}

	slots, err := h.layoutService.LocationDetail(c.Request.Context(), location)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, slots)
}
