// Package ports is the boundary between the invoice application and its
// adapters: document renderers, the pasted row parser, the spreadsheet codec,
// logo storage and the readiness checks.
//
// Anything that may block takes a context first. Values crossing the
// boundary are domain types, and failures wrap domain.ErrNotFound,
// domain.ErrValidation or domain.ErrUnavailable so handlers can map them.
package ports

import (
	"context"
	"io"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

// DocumentExporter renders a document as a file, e.g. the PDF.
type DocumentExporter interface {
	// Export lays out doc, leaving the logo area blank when logo is nil.
	Export(ctx context.Context, doc domain.Document, logo *domain.Logo) (*domain.RenderedFile, error)
}

// LineItemParser turns pasted or uploaded text into line items.
type LineItemParser interface {
	// Parse keeps every row it can read and counts the rest as dropped.
	Parse(text string) ([]domain.LineItem, ImportReport)
}

// SpreadsheetCodec moves line items in and out of .xlsx workbooks.
type SpreadsheetCodec interface {
	// Import reads the first sheet. Only an unreadable workbook is an error;
	// unreadable rows are dropped.
	Import(r io.Reader) ([]domain.LineItem, ImportReport, error)

	// Export writes the items followed by the totals block.
	Export(doc domain.Document) (*domain.RenderedFile, error)
}

// ImportReport tallies one import. Every considered row is either imported
// or dropped, so Imported+Dropped == Lines.
type ImportReport struct {
	Lines    int
	Imported int
	Dropped  int
}

// LogoSource reads the company logo from a file, an HTTP URL or S3.
type LogoSource interface {
	// Fetch returns the encoded image. A missing logo wraps
	// domain.ErrNotFound; an unreachable store wraps domain.ErrUnavailable.
	Fetch(ctx context.Context) ([]byte, error)

	// Location is the configured path, URL or s3:// URI.
	Location() string
}

// LogoProvider hands out the logo loaded in the background.
type LogoProvider interface {
	// Current never blocks. It is nil until a fetch succeeds.
	Current() *domain.Logo
}
