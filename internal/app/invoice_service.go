// Package app contains application services that orchestrate use cases.
// It coordinates the pure domain calculations with the renderers and
// importers behind the ports, and owns the shared working document.
package app

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
	"github.com/jsamuelsen/invoice-builder/internal/platform/telemetry"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

const instrumentationName = "github.com/jsamuelsen/invoice-builder/internal/app"

// Export formats.
const (
	FormatPDF    = "pdf"
	FormatXLSX   = "xlsx"
	FormatBundle = "zip"
)

// Import sources.
const (
	SourceCSV  = "csv"
	SourceXLSX = "xlsx"
)

// BundleContentType is the MIME type of bundle exports.
const BundleContentType = "application/zip"

// MaxImportBytes bounds the size of an uploaded CSV file.
const MaxImportBytes = 10 << 20

// InvoiceService orchestrates calculation, import and export use cases.
// It depends on port interfaces, not concrete implementations.
type InvoiceService struct {
	parser  ports.LineItemParser
	sheets  ports.SpreadsheetCodec
	pdf     ports.DocumentExporter
	logos   ports.LogoProvider
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

// InvoiceServiceConfig contains the dependencies of the invoice service.
type InvoiceServiceConfig struct {
	Parser       ports.LineItemParser
	Spreadsheets ports.SpreadsheetCodec
	PDF          ports.DocumentExporter

	// Logos is optional. Without it PDFs never carry a logo.
	Logos ports.LogoProvider

	Metrics *telemetry.BusinessMetrics
	Logger  *slog.Logger
}

// NewInvoiceService creates the service. It panics when a required port is missing.
func NewInvoiceService(cfg InvoiceServiceConfig) *InvoiceService {
	if cfg.Parser == nil || cfg.Spreadsheets == nil || cfg.PDF == nil {
		panic("app: InvoiceService requires Parser, Spreadsheets and PDF")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &InvoiceService{
		parser:  cfg.Parser,
		sheets:  cfg.Spreadsheets,
		pdf:     cfg.PDF,
		logos:   cfg.Logos,
		metrics: cfg.Metrics,
		logger:  logger.With(slog.String("component", "app.InvoiceService")),
	}
}

// Calculation is the result of Calculate.
type Calculation struct {
	Currency  string
	Totals    domain.Totals
	Formatted domain.FormattedTotals
}

// Calculate computes and formats the totals of doc.
func (s *InvoiceService) Calculate(ctx context.Context, doc domain.Document) Calculation {
	_, span := s.start(ctx, "InvoiceService.Calculate", documentAttrs(doc)...)
	defer span.End()

	f := doc.Settings.Formatter()
	totals := doc.Totals()

	return Calculation{
		Currency:  f.Code(),
		Totals:    totals,
		Formatted: totals.Format(f),
	}
}

// ImportCSV parses delimited text. It never fails; bad rows are counted as dropped.
func (s *InvoiceService) ImportCSV(ctx context.Context, text string) ([]domain.LineItem, ports.ImportReport) {
	ctx, span := s.start(ctx, "InvoiceService.ImportCSV")
	defer span.End()

	items, report := s.parser.Parse(text)
	s.recordImport(ctx, span, SourceCSV, report)

	return items, report
}

// ImportSpreadsheet reads line items from an XLSX workbook.
func (s *InvoiceService) ImportSpreadsheet(ctx context.Context, r io.Reader) ([]domain.LineItem, ports.ImportReport, error) {
	ctx, span := s.start(ctx, "InvoiceService.ImportSpreadsheet")
	defer span.End()

	items, report, err := s.sheets.Import(r)
	if err != nil {
		fail(span, err)
		return nil, ports.ImportReport{}, fmt.Errorf("importing spreadsheet: %w", err)
	}

	s.recordImport(ctx, span, SourceXLSX, report)

	return items, report, nil
}

// ImportFile dispatches on the file extension: ".xlsx" is read as a workbook,
// anything else as delimited text.
func (s *InvoiceService) ImportFile(ctx context.Context, filename string, r io.Reader) ([]domain.LineItem, ports.ImportReport, error) {
	if strings.EqualFold(filepath.Ext(filename), "."+SourceXLSX) {
		return s.ImportSpreadsheet(ctx, r)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxImportBytes+1))
	if err != nil {
		return nil, ports.ImportReport{}, fmt.Errorf("reading %s: %w", filename, err)
	}

	if len(data) > MaxImportBytes {
		return nil, ports.ImportReport{}, domain.NewValidationErrorWithValue("file",
			fmt.Sprintf("must not exceed %d bytes", MaxImportBytes), filename)
	}

	items, report := s.ImportCSV(ctx, string(data))

	return items, report, nil
}

// ExportPDF renders doc as a PDF with the logo, if one has loaded.
func (s *InvoiceService) ExportPDF(ctx context.Context, doc domain.Document) (*domain.RenderedFile, error) {
	ctx, span := s.start(ctx, "InvoiceService.ExportPDF", documentAttrs(doc)...)
	defer span.End()

	var logo *domain.Logo
	if s.logos != nil {
		logo = s.logos.Current()
	}

	span.SetAttributes(telemetry.AttrLogo.Bool(logo != nil))

	file, err := s.pdf.Export(ctx, doc, logo)
	if err != nil {
		fail(span, err)
		return nil, fmt.Errorf("exporting pdf: %w", err)
	}

	s.recordExport(ctx, FormatPDF, file)

	return file, nil
}

// ExportSpreadsheet renders doc as an XLSX workbook.
func (s *InvoiceService) ExportSpreadsheet(ctx context.Context, doc domain.Document) (*domain.RenderedFile, error) {
	ctx, span := s.start(ctx, "InvoiceService.ExportSpreadsheet", documentAttrs(doc)...)
	defer span.End()

	file, err := s.sheets.Export(doc)
	if err != nil {
		fail(span, err)
		return nil, fmt.Errorf("exporting spreadsheet: %w", err)
	}

	s.recordExport(ctx, FormatXLSX, file)

	return file, nil
}

// ExportBundle renders the PDF and the workbook concurrently and zips them.
func (s *InvoiceService) ExportBundle(ctx context.Context, doc domain.Document) (*domain.RenderedFile, error) {
	ctx, span := s.start(ctx, "InvoiceService.ExportBundle", documentAttrs(doc)...)
	defer span.End()

	pdfFile, xlsxFile, err := Both(ctx,
		func(ctx context.Context) (*domain.RenderedFile, error) { return s.ExportPDF(ctx, doc) },
		func(ctx context.Context) (*domain.RenderedFile, error) { return s.ExportSpreadsheet(ctx, doc) },
	)
	if err != nil {
		fail(span, err)
		return nil, fmt.Errorf("exporting bundle: %w", err)
	}

	data, err := zipFiles(pdfFile, xlsxFile)
	if err != nil {
		fail(span, err)
		return nil, fmt.Errorf("zipping bundle: %w", err)
	}

	file := &domain.RenderedFile{
		Filename:    doc.Filename(FormatBundle),
		ContentType: BundleContentType,
		Data:        data,
		Pages:       pdfFile.Pages,
	}

	s.recordExport(ctx, FormatBundle, file)

	return file, nil
}

// Export renders doc in the named format.
func (s *InvoiceService) Export(ctx context.Context, doc domain.Document, format string) (*domain.RenderedFile, error) {
	ctx = logging.WithContext(ctx, logging.FromContextOr(ctx, s.logger).With(slog.Group("document",
		slog.String("type", doc.Settings.TypeLabel()),
		slog.String("number", doc.Settings.NumberLabel()),
	)))

	switch strings.ToLower(format) {
	case FormatPDF:
		return s.ExportPDF(ctx, doc)
	case FormatXLSX:
		return s.ExportSpreadsheet(ctx, doc)
	case FormatBundle, "bundle":
		return s.ExportBundle(ctx, doc)
	default:
		return nil, domain.NewValidationErrorWithValue("format",
			"must be one of pdf, xlsx, bundle", format)
	}
}

func documentAttrs(doc domain.Document) []attribute.KeyValue {
	return []attribute.KeyValue{
		telemetry.AttrDocumentType.String(doc.Settings.TypeLabel()),
		telemetry.AttrCurrency.String(doc.Settings.Formatter().Code()),
		telemetry.AttrItems.Int(len(doc.Items)),
	}
}

func (s *InvoiceService) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *InvoiceService) recordImport(ctx context.Context, span trace.Span, source string, report ports.ImportReport) {
	span.SetAttributes(
		telemetry.AttrImportSource.String(source),
		telemetry.AttrImportLines.Int(report.Lines),
		telemetry.AttrImportImported.Int(report.Imported),
		telemetry.AttrImportDropped.Int(report.Dropped),
	)
	s.metrics.ImportRows(source, report.Imported, report.Dropped)

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "line items imported",
		slog.String("source", source),
		slog.Int("lines", report.Lines),
		slog.Int("imported", report.Imported),
		slog.Int("dropped", report.Dropped),
	)
}

func (s *InvoiceService) recordExport(ctx context.Context, format string, file *domain.RenderedFile) {
	s.metrics.DocumentExported(format)

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "document exported",
		slog.String("format", format),
		slog.String("filename", file.Filename),
		slog.Int("bytes", len(file.Data)),
	)
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func zipFiles(files ...*domain.RenderedFile) ([]byte, error) {
	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)
	modified := time.Now()

	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Filename,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return nil, err
		}

		if _, err := w.Write(f.Data); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
