package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/dto"
	"github.com/jsamuelsen/invoice-builder/internal/app"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

// uploadField is the multipart field carrying an imported file.
const uploadField = "file"

// InvoiceHandler serves the stateless calculation, parsing and export endpoints.
type InvoiceHandler struct {
	service *app.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler.
func NewInvoiceHandler(service *app.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		service: service,
	}
}

// Totals handles POST /api/v1/totals
//
// @Summary Calculate totals
// @Description Sums the items, applies the tax rate and discount and formats the result
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body dto.TotalsRequest true "Items and rates"
// @Success 200 {object} dto.TotalsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/totals [post]
func (h *InvoiceHandler) Totals(c *gin.Context) {
	var req dto.TotalsRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	calc := h.service.Calculate(c.Request.Context(), domain.Document{
		Settings: domain.DocumentSettings{
			Currency: req.Currency,
			TaxRate:  req.TaxRate.Decimal,
			Discount: req.Discount.Decimal,
		},
		Items: dto.ItemsToDomain(req.Items),
	})

	c.JSON(http.StatusOK, dto.NewTotalsResponse(calc.Currency, calc.Totals, calc.Formatted))
}

// ParseItems handles POST /api/v1/items/parse
// Accepts a multipart upload in the "file" field (CSV or XLSX), a JSON body
// {"text": "..."} or raw CSV text.
//
// @Summary Parse line items
// @Description Reads line items from CSV text or an uploaded CSV/XLSX file
// @Tags invoices
// @Accept json,text/csv,multipart/form-data
// @Produce json
// @Success 200 {object} dto.ParseItemsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/items/parse [post]
func (h *InvoiceHandler) ParseItems(c *gin.Context) {
	items, report, err := readItems(c, h.service)
	if err != nil {
		respondReadError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ParseItemsResponse{
		Items:  dto.ItemsFromDomain(items),
		Report: dto.ReportFromPort(report),
	})
}

// ExportPDF handles POST /api/v1/documents/pdf
//
// @Summary Export a PDF
// @Tags documents
// @Accept json
// @Produce application/pdf
// @Param request body dto.DocumentRequest true "Document"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/documents/pdf [post]
func (h *InvoiceHandler) ExportPDF(c *gin.Context) {
	h.export(c, app.FormatPDF)
}

// ExportSpreadsheet handles POST /api/v1/documents/xlsx
//
// @Summary Export an XLSX workbook
// @Tags documents
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param request body dto.DocumentRequest true "Document"
// @Success 200 {file} binary
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/documents/xlsx [post]
func (h *InvoiceHandler) ExportSpreadsheet(c *gin.Context) {
	h.export(c, app.FormatXLSX)
}

func (h *InvoiceHandler) export(c *gin.Context, format string) {
	var req dto.DocumentRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondBindError(c, err)
		return
	}

	file, err := h.service.Export(c.Request.Context(), req.ToDomain(), format)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	sendFile(c, file)
}

// RegisterInvoiceRoutes registers the stateless routes on the given router group.
func (h *InvoiceHandler) RegisterInvoiceRoutes(rg *gin.RouterGroup) {
	rg.POST("/totals", h.Totals)
	rg.POST("/items/parse", h.ParseItems)

	docs := rg.Group("/documents")
	docs.POST("/pdf", h.ExportPDF)
	docs.POST("/xlsx", h.ExportSpreadsheet)
}

// readItems extracts line items from a multipart upload, a JSON body or raw text.
func readItems(c *gin.Context, svc *app.InvoiceService) ([]domain.LineItem, ports.ImportReport, error) {
	ctx := c.Request.Context()
	contentType, _, _ := mime.ParseMediaType(c.ContentType())

	switch {
	case strings.HasPrefix(contentType, "multipart/"):
		fh, err := c.FormFile(uploadField)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, ports.ImportReport{}, err
			}

			return nil, ports.ImportReport{}, errMissingUpload
		}

		f, err := fh.Open()
		if err != nil {
			return nil, ports.ImportReport{}, err
		}
		defer f.Close()

		items, report, err := svc.ImportFile(ctx, fh.Filename, f)

		return items, report, err

	case contentType == "application/json":
		var req dto.ParseItemsRequest
		if err := dto.BindAndValidate(c, &req); err != nil {
			return nil, ports.ImportReport{}, err
		}

		items, report := svc.ImportCSV(ctx, req.Text)

		return items, report, nil

	default:
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, app.MaxImportBytes))
		if err != nil {
			return nil, ports.ImportReport{}, err
		}

		items, report := svc.ImportCSV(ctx, string(body))

		return items, report, nil
	}
}

var errMissingUpload = domain.NewValidationError(uploadField, "a multipart file upload is required")

// respondReadError distinguishes unreadable requests from domain failures.
func respondReadError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError

	if errors.As(err, &tooLarge) || errors.Is(err, dto.ErrBinding) || errors.Is(err, dto.ErrValidation) {
		dto.RespondBindError(c, err)
		return
	}

	dto.HandleError(c, err)
}

// sendFile writes a rendered document as an attachment.
func sendFile(c *gin.Context, file *domain.RenderedFile) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": file.Filename,
	}))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
