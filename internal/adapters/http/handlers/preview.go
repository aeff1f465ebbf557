package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/invoice-builder/internal/app"
)

// PreviewTemplateName is the template rendered by the preview page.
const PreviewTemplateName = "preview.html.tmpl"

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded HTML templates. Install them with
// engine.SetHTMLTemplate before registering the preview route.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))
}

// PreviewHandler renders the workspace as an HTML page.
type PreviewHandler struct {
	workspace *app.Workspace
}

// NewPreviewHandler creates a new preview handler.
func NewPreviewHandler(workspace *app.Workspace) *PreviewHandler {
	return &PreviewHandler{workspace: workspace}
}

// Preview handles GET /preview
func (h *PreviewHandler) Preview(c *gin.Context) {
	c.HTML(http.StatusOK, PreviewTemplateName, h.workspace.View())
}

// RegisterPreviewRoutes registers the preview page on the engine.
func (h *PreviewHandler) RegisterPreviewRoutes(engine *gin.Engine) {
	engine.SetHTMLTemplate(Templates())
	engine.GET("/preview", h.Preview)
}
