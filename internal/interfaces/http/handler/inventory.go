package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/wms/backend/internal/application/inventory"
)

// maxWorkbookSize caps uploaded workbooks at 20 MiB
const maxWorkbookSize = 20 << 20

// InventoryHandler handles inventory snapshot and reconciliation endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.Service) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// ===================== Request/Response Types for Swagger =====================

// SaveCountRequest represents a physical count submission
// @Description Request body for saving physical count entries
type SaveCountRequest struct {
	Entries []inventoryapp.CountLineInput `json:"entries" binding:"required,dive"`
}

// ExportDiscrepanciesRequest represents an export request built from the
// count entries currently held by the client
// @Description Request body for exporting the discrepancy report
type ExportDiscrepanciesRequest struct {
	Entries []inventoryapp.CountLineInput `json:"entries" binding:"required,dive"`
}

// UploadSnapshot godoc
// @ID           uploadInventorySnapshot
// @Summary      Upload inventory snapshot
// @Description  Upload an xlsx export of system stock; replaces the current snapshot
// @Tags         inventory
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "Inventory workbook (.xlsx)"
// @Success      201 {object} APIResponse[inventoryapp.UploadSnapshotResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/snapshot [post]
func (h *InventoryHandler) UploadSnapshot(c *gin.Context) {
	data, filename, ok := h.readWorkbook(c)
	if !ok {
		return
	}

	result, err := h.inventoryService.UploadSnapshot(c.Request.Context(), inventoryapp.UploadSnapshotInput{
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

// List godoc
// @ID           listInventoryItems
// @Summary      List inventory items
// @Description  List the current snapshot's lines in warehouse walking order
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]inventoryapp.ItemDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/items [get]
func (h *InventoryHandler) List(c *gin.Context) {
	items, err := h.inventoryService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// CountSheet godoc
// @ID           getCountSheet
// @Summary      Get the physical count sheet
// @Description  Snapshot lines merged with any previously saved count entries
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]inventoryapp.CountSheetRow]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/count-sheet [get]
func (h *InventoryHandler) CountSheet(c *gin.Context) {
	rows, err := h.inventoryService.CountSheet(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}

// SaveCount godoc
// @ID           saveCount
// @Summary      Save physical count
// @Description  Replace the stored count entries with the submitted ones
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body SaveCountRequest true "Count entries"
// @Success      200 {object} APIResponse[inventoryapp.SaveCountResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/count [post]
func (h *InventoryHandler) SaveCount(c *gin.Context) {
	var req SaveCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.inventoryService.SaveCount(c.Request.Context(), inventoryapp.SaveCountInput{
		Entries:  req.Entries,
		Username: getUsername(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Reconciliation godoc
// @ID           getReconciliation
// @Summary      Get reconciliation result
// @Description  Compare the current snapshot against the saved count entries
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[inventoryapp.ReconciliationResult]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/reconciliation [get]
func (h *InventoryHandler) Reconciliation(c *gin.Context) {
	result, err := h.inventoryService.Reconciliation(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ExportDiscrepancies godoc
// @ID           exportDiscrepancies
// @Summary      Export discrepancy report
// @Description  Build the discrepancy workbook from the submitted count entries
// @Tags         inventory
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        request body ExportDiscrepanciesRequest true "Count entries"
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/export [post]
func (h *InventoryHandler) ExportDiscrepancies(c *gin.Context) {
	var req ExportDiscrepanciesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.inventoryService.ExportDiscrepancies(c.Request.Context(), inventoryapp.ExportInput{
		Entries:  req.Entries,
		Username: getUsername(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	// Proxies must not recompress or cache the workbook bytes
	c.Header("Content-Encoding", "identity")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, inventoryapp.XLSXContentType, result.Content)
}

// History godoc
// @ID           getSnapshotHistory
// @Summary      Get snapshot upload history
// @Description  List past snapshot uploads, newest first
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]inventoryapp.SnapshotDTO]
// @Failure      401 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/history [get]
func (h *InventoryHandler) History(c *gin.Context) {
	snapshots, err := h.inventoryService.History(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, snapshots)
}

// readWorkbook pulls the uploaded xlsx out of the multipart form. Responds
// with 400 and returns ok=false on any problem.
func (h *BaseHandler) readWorkbook(c *gin.Context) (data []byte, filename string, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "Missing file upload")
		return nil, "", false
	}
	if fileHeader.Size > maxWorkbookSize {
		h.BadRequest(c, "Uploaded file is too large")
		return nil, "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Failed to open uploaded file")
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(io.LimitReader(file, maxWorkbookSize+1))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return nil, "", false
	}

	return data, fileHeader.Filename, true
}
