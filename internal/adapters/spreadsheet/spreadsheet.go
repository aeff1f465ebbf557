// Package spreadsheet reads and writes line items as XLSX workbooks.
package spreadsheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/csvimport"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

// ContentType is the MIME type of the produced workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	itemsSheet   = "Items"
	summarySheet = "Summary"
)

var itemsHeader = []string{"Description", "Qty", "Unit Price", "Amount"}

// Codec adapts the package functions to ports.SpreadsheetCodec.
type Codec struct{}

// Import implements ports.SpreadsheetCodec.
func (Codec) Import(r io.Reader) ([]domain.LineItem, ports.ImportReport, error) {
	return Import(r)
}

// Export implements ports.SpreadsheetCodec.
func (Codec) Export(doc domain.Document) (*domain.RenderedFile, error) {
	return Export(doc)
}

// Import reads the first three columns of the first sheet. Rows follow the
// same fail-soft rules as CSV import; a header row written by Export is skipped.
func Import(r io.Reader) ([]domain.LineItem, csvimport.Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, csvimport.Report{}, domain.NewValidationError("file", "not a readable xlsx workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []domain.LineItem{}, csvimport.Report{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, csvimport.Report{}, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	items := []domain.LineItem{}
	report := csvimport.Report{}

	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}

		if isBlank(row) {
			continue
		}

		report.Lines++

		it, ok := csvimport.ParseRow(row)
		if !ok {
			report.Dropped++
			continue
		}

		items = append(items, it)
	}

	report.Imported = len(items)

	return items, report, nil
}

// Export writes an Items sheet and a Summary sheet for the document.
func Export(doc domain.Document) (*domain.RenderedFile, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	if err := writeItems(f, doc.Items, bold); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("creating summary sheet: %w", err)
	}

	if err := writeSummary(f, doc, bold); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}

	return &domain.RenderedFile{
		Filename:    doc.Filename("xlsx"),
		ContentType: ContentType,
		Data:        buf.Bytes(),
	}, nil
}

func writeItems(f *excelize.File, items []domain.LineItem, bold int) error {
	for i, h := range itemsHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(itemsSheet, cell, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := f.SetCellStyle(itemsSheet, "A1", "D1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	if err := f.SetColWidth(itemsSheet, "A", "A", 40); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}

	for i, it := range items {
		row := i + 2
		values := []any{
			it.Description,
			it.Quantity.InexactFloat64(),
			it.UnitPrice.InexactFloat64(),
			it.Amount().InexactFloat64(),
		}

		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(itemsSheet, cell, v); err != nil {
				return fmt.Errorf("writing item %d: %w", i+1, err)
			}
		}
	}

	return nil
}

func writeSummary(f *excelize.File, doc domain.Document, bold int) error {
	s := doc.Settings
	totals := doc.Totals()

	rows := [][2]any{
		{"Document", s.TypeLabel()},
		{"Number", s.NumberLabel()},
		{"Client", s.Client.Name},
		{"Currency", s.Formatter().Code()},
		{"Sub Total", totals.Subtotal.InexactFloat64()},
		{"Tax " + s.TaxRate.String() + "%", totals.Tax.InexactFloat64()},
		{"Discount", totals.Discount.InexactFloat64()},
		{"Grand Total", totals.GrandTotal.InexactFloat64()},
	}

	for i, r := range rows {
		row := i + 1
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), r[0]); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}

		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), r[1]); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}

	last := fmt.Sprintf("A%d", len(rows))
	if err := f.SetCellStyle(summarySheet, last, last, bold); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}

	return nil
}

func isHeader(row []string) bool {
	if len(row) < 3 {
		return false
	}

	for i := range 3 {
		if !strings.EqualFold(strings.TrimSpace(row[i]), itemsHeader[i]) {
			return false
		}
	}

	return true
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
