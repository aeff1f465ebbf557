package pdf

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

func testDocument(items []domain.LineItem) domain.Document {
	return domain.Document{
		Settings: domain.DocumentSettings{
			DocumentType: "INVOICE",
			Number:       "INV-001",
			IssueDate:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
			Company: domain.Party{
				Name:    "Borcelle",
				Tagline: "REAL ESTATE DEVELOPER",
				Address: "123 Anywhere St., Any City",
				Email:   "hello@example.com",
				Phone:   "+123-456-7890",
				Website: "www.example.com",
			},
			Client:   domain.Party{Name: "Mulia Group", Address: "Jl. Sudirman 1\nJakarta"},
			Currency: "IDR",
			TaxRate:  decimal.NewFromInt(11),
			Discount: decimal.NewFromInt(100),
			Notes:    "Payment due within 14 days.",
		},
		Items: items,
	}
}

func pngLogo(t *testing.T, w, h int) *domain.Logo {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, 0, color.RGBA{R: 13, G: 110, B: 253, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return &domain.Logo{Data: buf.Bytes(), Format: domain.LogoFormatPNG, Width: w, Height: h}
}

func TestExport_SinglePage(t *testing.T) {
	e := New(Config{})

	out, err := e.Export(context.Background(), testDocument(domain.SampleItems()), nil)
	require.NoError(t, err)

	assert.Equal(t, "invoice-INV-001.pdf", out.Filename)
	assert.Equal(t, ContentType, out.ContentType)
	assert.Equal(t, 1, out.Pages)
	assert.True(t, bytes.HasPrefix(out.Data, []byte("%PDF")))
	assert.Contains(t, string(out.Data), "(GRAND TOTAL)")
	assert.Contains(t, string(out.Data), "(Deskripsi)")
	assert.Contains(t, string(out.Data), "(Page 1)")
	assert.Contains(t, string(out.Data), "(Monthly meeting)")
}

func TestExport_PaginatesLongTables(t *testing.T) {
	items := make([]domain.LineItem, 0, 80)
	for i := range 80 {
		items = append(items, domain.LineItem{
			Description: fmt.Sprintf("Line %d", i+1),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(10),
		})
	}

	out, err := New(Config{}).Export(context.Background(), testDocument(items), nil)
	require.NoError(t, err)

	assert.Greater(t, out.Pages, 1)
	assert.Contains(t, string(out.Data), "(Page 2)")
	assert.Contains(t, string(out.Data), "(Line 80)")
}

func TestExport_WithLogo(t *testing.T) {
	out, err := New(Config{}).Export(context.Background(), testDocument(domain.SampleItems()), pngLogo(t, 120, 60))
	require.NoError(t, err)

	assert.Contains(t, string(out.Data), "/Subtype /Image")
}

func TestExport_BrokenLogoIsIgnored(t *testing.T) {
	broken := &domain.Logo{Data: []byte("not an image"), Format: domain.LogoFormatPNG, Width: 10, Height: 10}

	out, err := New(Config{}).Export(context.Background(), testDocument(domain.SampleItems()), broken)
	require.NoError(t, err)

	assert.NotContains(t, string(out.Data), "/Subtype /Image")
	assert.Contains(t, string(out.Data), "(GRAND TOTAL)")
}

func TestExport_QuotationWithoutNumber(t *testing.T) {
	doc := testDocument(nil)
	doc.Settings.DocumentType = "QUOTATION"
	doc.Settings.Number = ""

	out, err := New(Config{Compress: true}).Export(context.Background(), doc, nil)
	require.NoError(t, err)

	assert.Equal(t, "quotation-doc.pdf", out.Filename)
	assert.Equal(t, 1, out.Pages)
}
