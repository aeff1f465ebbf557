package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/dto"
	"github.com/jsamuelsen/invoice-builder/internal/app"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

// WorkspaceHandler serves the shared working document.
type WorkspaceHandler struct {
	workspace *app.Workspace
	service   *app.InvoiceService
}

// NewWorkspaceHandler creates a new workspace handler.
func NewWorkspaceHandler(workspace *app.Workspace, service *app.InvoiceService) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspace: workspace,
		service:   service,
	}
}

// ImportResponse reports the outcome of a workspace import.
type ImportResponse struct {
	Changed bool             `json:"changed"`
	Report  dto.ImportReport `json:"report"`
	View    app.View         `json:"view"`
}

// GetView handles GET /api/v1/workspace
//
// @Summary Render the workspace
// @Tags workspace
// @Produce json
// @Success 200 {object} app.View
// @Router /api/v1/workspace [get]
func (h *WorkspaceHandler) GetView(c *gin.Context) {
	c.JSON(http.StatusOK, h.workspace.View())
}

// GetSettings handles GET /api/v1/workspace/settings
//
// @Summary Read the document settings
// @Tags workspace
// @Produce json
// @Success 200 {object} dto.Settings
// @Router /api/v1/workspace/settings [get]
func (h *WorkspaceHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, dto.SettingsFromDomain(h.workspace.Snapshot().Settings))
}

// UpdateSettings handles PUT /api/v1/workspace/settings
//
// @Summary Replace the document settings
// @Tags workspace
// @Accept json
// @Produce json
// @Param request body dto.Settings true "Settings"
// @Success 200 {object} app.View
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/workspace/settings [put]
func (h *WorkspaceHandler) UpdateSettings(c *gin.Context) {
	var req dto.Settings
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.workspace.UpdateSettings(c.Request.Context(), req.ToDomain()))
}

// AddItem handles POST /api/v1/workspace/items
//
// @Summary Append a default row
// @Tags workspace
// @Produce json
// @Success 201 {object} app.View
// @Router /api/v1/workspace/items [post]
func (h *WorkspaceHandler) AddItem(c *gin.Context) {
	c.JSON(http.StatusCreated, h.workspace.AddItem(c.Request.Context()))
}

// UpdateItem handles PATCH /api/v1/workspace/items/:index
//
// @Summary Edit one field of a row
// @Tags workspace
// @Accept json
// @Produce json
// @Param index path int true "Zero-based row index"
// @Param request body dto.UpdateItemRequest true "Field and raw value"
// @Success 200 {object} app.View
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/workspace/items/{index} [patch]
func (h *WorkspaceHandler) UpdateItem(c *gin.Context) {
	index, err := indexParam(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.UpdateItemRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	view, err := h.workspace.UpdateItemField(c.Request.Context(), index, req.Field, string(req.Value))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// RemoveItem handles DELETE /api/v1/workspace/items/:index
//
// @Summary Delete a row
// @Tags workspace
// @Produce json
// @Param index path int true "Zero-based row index"
// @Success 200 {object} app.View
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/workspace/items/{index} [delete]
func (h *WorkspaceHandler) RemoveItem(c *gin.Context) {
	index, err := indexParam(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	view, err := h.workspace.RemoveItem(c.Request.Context(), index)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// ClearItems handles DELETE /api/v1/workspace/items
//
// @Summary Delete every row
// @Tags workspace
// @Produce json
// @Success 200 {object} app.View
// @Router /api/v1/workspace/items [delete]
func (h *WorkspaceHandler) ClearItems(c *gin.Context) {
	c.JSON(http.StatusOK, h.workspace.ClearItems(c.Request.Context()))
}

// Import handles POST /api/v1/workspace/import
// An import that yields no rows leaves the workspace unchanged.
//
// @Summary Replace rows from a CSV or XLSX upload
// @Tags workspace
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Success 200 {object} ImportResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/workspace/import [post]
func (h *WorkspaceHandler) Import(c *gin.Context) {
	items, report, err := readItems(c, h.service)
	if err != nil {
		respondReadError(c, err)
		return
	}

	view, changed := h.workspace.ImportItems(c.Request.Context(), items)

	c.JSON(http.StatusOK, ImportResponse{
		Changed: changed,
		Report:  dto.ReportFromPort(report),
		View:    view,
	})
}

// Export handles GET /api/v1/workspace/export/:format
//
// @Summary Download the workspace document
// @Tags workspace
// @Produce application/pdf,application/zip
// @Param format path string true "pdf, xlsx or bundle"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/workspace/export/{format} [get]
func (h *WorkspaceHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), h.workspace.Snapshot(), c.Param("format"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	sendFile(c, file)
}

// RegisterWorkspaceRoutes registers the workspace routes on the given router group.
// The live websocket is registered separately so it is not subject to request timeouts.
func (h *WorkspaceHandler) RegisterWorkspaceRoutes(rg *gin.RouterGroup) {
	ws := rg.Group("/workspace")
	ws.GET("", h.GetView)
	ws.GET("/settings", h.GetSettings)
	ws.PUT("/settings", h.UpdateSettings)
	ws.POST("/items", h.AddItem)
	ws.PATCH("/items/:index", h.UpdateItem)
	ws.DELETE("/items/:index", h.RemoveItem)
	ws.DELETE("/items", h.ClearItems)
	ws.POST("/import", h.Import)
	ws.GET("/export/:format", h.Export)
}

func indexParam(c *gin.Context) (int, error) {
	raw := c.Param("index")

	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationErrorWithValue("index", "must be an integer", raw)
	}

	return index, nil
}
