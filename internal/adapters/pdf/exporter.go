// Package pdf lays out invoice and quotation documents as A4 PDFs.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.opentelemetry.io/otel"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
	"github.com/jsamuelsen/invoice-builder/internal/platform/telemetry"
)

// ContentType is the MIME type of exported documents.
const ContentType = "application/pdf"

const instrumentationName = "github.com/jsamuelsen/invoice-builder/internal/adapters/pdf"

// Page geometry in points.
const (
	marginX      = 40.0
	contentRight = 555.0
	bottomMargin = 40.0
	logoWidth    = 64.0
	logoMinH     = 28.0
	logoImageKey = "logo"
)

// Config configures an Exporter.
type Config struct {
	// Compress enables stream compression in the output.
	Compress bool

	// Creator is written to the document metadata.
	Creator string

	// Logger is an optional logger. If nil, the context logger is used.
	Logger *slog.Logger
}

// Exporter renders documents to PDF. It is safe for concurrent use;
// every call builds its own gofpdf instance.
type Exporter struct {
	cfg Config
}

// New creates an Exporter.
func New(cfg Config) *Exporter {
	if cfg.Creator == "" {
		cfg.Creator = "invoice-builder"
	}

	return &Exporter{cfg: cfg}
}

// Export lays out doc with an optional logo. A logo that cannot be embedded is
// skipped and the document is still produced.
func (e *Exporter) Export(ctx context.Context, doc domain.Document, logo *domain.Logo) (*domain.RenderedFile, error) {
	_, span := otel.Tracer(instrumentationName).Start(ctx, "pdf.Export")
	defer span.End()

	logger := e.cfg.Logger
	if logger == nil {
		logger = logging.FromContext(ctx)
	}

	l := newLayout(doc, e.cfg)
	l.header(logo, logger)
	l.table()
	l.summary()
	l.contact()

	if err := l.pdf.Error(); err != nil {
		return nil, fmt.Errorf("laying out pdf: %w", err)
	}

	pages := l.pdf.PageNo()

	var buf bytes.Buffer
	if err := l.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}

	span.SetAttributes(
		telemetry.AttrFormat.String("pdf"),
		telemetry.AttrPages.Int(pages),
		telemetry.AttrItems.Int(len(doc.Items)),
	)

	return &domain.RenderedFile{
		Filename:    doc.Filename("pdf"),
		ContentType: ContentType,
		Data:        buf.Bytes(),
		Pages:       pages,
	}, nil
}

type layout struct {
	pdf   *gofpdf.Fpdf
	tr    func(string) string
	doc   domain.Document
	money domain.MoneyFormatter
	pageW float64
	pageH float64
	y     float64
}

func newLayout(doc domain.Document, cfg Config) *layout {
	p := gofpdf.New("P", "pt", "A4", "")
	p.SetCompression(cfg.Compress)
	p.SetMargins(marginX, marginX, marginX)
	p.SetAutoPageBreak(false, bottomMargin)
	p.SetCreator(cfg.Creator, true)
	p.SetTitle(doc.Filename("pdf"), true)

	l := &layout{
		pdf:   p,
		tr:    p.UnicodeTranslatorFromDescriptor(""),
		doc:   doc,
		money: doc.Settings.Formatter(),
	}
	l.pageW, l.pageH = p.GetPageSize()

	p.SetFooterFunc(func() {
		p.SetFont("Helvetica", "", 9)
		p.SetTextColor(120, 120, 120)
		l.textRight(l.pageW-marginX, l.pageH-20, fmt.Sprintf("Page %d", p.PageNo()))
	})

	p.AddPage()

	return l
}

func (l *layout) text(x, y float64, s string) {
	l.pdf.Text(x, y, l.tr(s))
}

func (l *layout) textRight(x, y float64, s string) {
	s = l.tr(s)
	l.pdf.Text(x-l.pdf.GetStringWidth(s), y, s)
}

func (l *layout) textCenter(x, y float64, s string) {
	s = l.tr(s)
	l.pdf.Text(x-l.pdf.GetStringWidth(s)/2, y, s)
}

// wrap splits s to lines no wider than w in the current font. Explicit
// newlines are kept.
func (l *layout) wrap(s string, w float64) []string {
	var out []string

	for _, part := range bytes.Split([]byte(l.tr(s)), []byte("\n")) {
		if len(bytes.TrimSpace(part)) == 0 {
			out = append(out, "")
			continue
		}

		for _, line := range l.pdf.SplitLines(part, w) {
			out = append(out, string(line))
		}
	}

	return out
}

// lines draws pre-wrapped text without translating it again.
func (l *layout) lines(x, y, lineH float64, lines []string) {
	for i, line := range lines {
		l.pdf.Text(x, y+float64(i)*lineH, line)
	}
}

func (l *layout) header(logo *domain.Logo, logger *slog.Logger) {
	s := l.doc.Settings
	p := l.pdf

	brandX := marginX
	if l.drawLogo(logo, logger) {
		brandX += logoWidth + 16
	}

	p.SetTextColor(20, 20, 20)
	p.SetFont("Helvetica", "B", 18)
	l.text(brandX, 48, s.Company.Name)

	p.SetFont("Helvetica", "", 9)
	l.text(brandX, 64, s.Company.Tagline)
	p.SetTextColor(120, 120, 120)
	l.text(brandX, 74, s.Company.Website)
	l.text(brandX, 86, s.Company.Email)

	p.SetTextColor(20, 20, 20)
	p.SetFont("Helvetica", "B", 10)
	l.text(marginX, 130, "To")
	p.SetFont("Helvetica", "B", 12)
	l.text(marginX, 146, s.Client.Name)

	p.SetFont("Helvetica", "", 10)
	addr := l.wrap(s.Client.Address, 260)
	l.lines(marginX, 162, 12, addr)

	p.SetFont("Helvetica", "", 10)
	l.text(360, 130, "Invoice no :")
	l.textRight(contentRight, 130, s.NumberLabel())
	l.text(360, 146, "Date :")
	l.textRight(contentRight, 146, domain.FormatDisplayDate(s.IssueDateOr(time.Now())))

	if !s.DueDate.IsZero() {
		l.text(360, 162, "Due :")
		l.textRight(contentRight, 162, domain.FormatDisplayDate(s.DueDate))
	}

	lineY := max(162+float64(len(addr))*12+16, 176)
	p.SetDrawColor(220, 220, 220)
	p.Line(marginX, lineY, contentRight, lineY)

	l.y = lineY + 18
}

func (l *layout) drawLogo(logo *domain.Logo, logger *slog.Logger) bool {
	if logo == nil || len(logo.Data) == 0 {
		return false
	}

	opts := gofpdf.ImageOptions{ImageType: logo.Format}
	l.pdf.RegisterImageOptionsReader(logoImageKey, opts, bytes.NewReader(logo.Data))

	if !l.pdf.Ok() {
		logger.Warn("logo could not be embedded", slog.String("error", l.pdf.Error().Error()))
		l.pdf.ClearError()

		return false
	}

	h := max(logoWidth*logo.Ratio(), logoMinH)
	l.pdf.ImageOptions(logoImageKey, marginX, 28, logoWidth, h, false, opts, 0, "")

	return true
}

func (l *layout) newPage() {
	l.pdf.AddPage()
	l.y = 60
}
