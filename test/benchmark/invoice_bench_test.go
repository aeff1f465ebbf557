// Package benchmark measures the hot paths of the invoice builder: totals,
// pasted row parsing, workspace edits and document export.
package benchmark

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/csvimport"
	apihttp "github.com/jsamuelsen/invoice-builder/internal/adapters/http"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/http/handlers"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/pdf"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/spreadsheet"
	"github.com/jsamuelsen/invoice-builder/internal/app"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// A three line IDR quotation with Indonesian and English number styles.
const quotation = `{"currency":"IDR","taxRate":11,"discount":"5.000","items":[` +
	`{"description":"Consultation","quantity":1,"unitPrice":300},` +
	`{"description":"Project Draft","quantity":2,"unitPrice":"1.200"},` +
	`{"description":"Implementation","quantity":1,"unitPrice":2500}]}`

var quiet = slog.New(slog.DiscardHandler)

type fixture struct {
	service   *app.InvoiceService
	workspace *app.Workspace
	router    *gin.Engine
}

func newFixture() fixture {
	f := fixture{
		service: app.NewInvoiceService(app.InvoiceServiceConfig{
			Parser:       csvimport.Parser{},
			Spreadsheets: spreadsheet.Codec{},
			PDF:          pdf.New(pdf.Config{Logger: quiet}),
			Logger:       quiet,
		}),
		workspace: app.NewWorkspace(app.WorkspaceConfig{
			Settings: domain.DocumentSettings{
				DocumentType: "INVOICE",
				Number:       "INV-1",
				Currency:     "IDR",
				TaxRate:      decimal.NewFromInt(11),
			},
			SeedSampleItems: true,
			Logger:          quiet,
		}),
		router: gin.New(),
	}

	apihttp.SetupRouter(f.router, apihttp.RouterConfig{
		Logger:    quiet,
		Health:    handlers.NewHealthHandler(ports.NewHealthRegistry(0), handlers.NewBuildInfo("invoice-builder", "bench", "", "")),
		Invoice:   handlers.NewInvoiceHandler(f.service),
		Workspace: handlers.NewWorkspaceHandler(f.workspace, f.service),
	})

	return f
}

// pasted returns n rows cycling through comma, semicolon and tab separated
// lines plus one unparseable line.
func pasted(n int) string {
	lines := [...]string{"Consultation,1,300", "Project Draft;2;1.200", "Implementation\t1\t$2,500", "see attached"}

	var sb strings.Builder
	for i := range n {
		sb.WriteString(lines[i%len(lines)])
		sb.WriteByte('\n')
	}

	return sb.String()
}

func BenchmarkAPI_Totals(b *testing.B) {
	f := newFixture()

	b.ReportAllocs()

	for b.Loop() {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/totals", strings.NewReader(quotation))
		req.Header.Set("Content-Type", "application/json")
		f.router.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func BenchmarkAPI_Live(b *testing.B) {
	f := newFixture()
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		f.router.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func BenchmarkCalculateTotals(b *testing.B) {
	items := domain.SampleItems()
	idr := domain.NewMoneyFormatter("IDR")
	tax, discount := decimal.NewFromInt(11), decimal.NewFromInt(500)

	b.ReportAllocs()

	for b.Loop() {
		_ = domain.CalculateTotals(items, tax, discount).Format(idr)
	}
}

func BenchmarkParsePasted(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		text := pasted(n)

		b.Run("rows="+strconv.Itoa(n), func(b *testing.B) {
			b.ReportAllocs()

			for b.Loop() {
				_, _ = csvimport.ParseWithReport(text)
			}
		})
	}
}

func BenchmarkWorkspace_UpdateItemField(b *testing.B) {
	ws := newFixture().workspace
	ctx := context.Background()

	b.ReportAllocs()

	i := 0
	for b.Loop() {
		if _, err := ws.UpdateItemField(ctx, i%5, domain.FieldQuantity, "3"); err != nil {
			b.Fatal(err)
		}
		i++
	}
}

func BenchmarkWorkspace_UpdateItemFieldContended(b *testing.B) {
	ws := newFixture().workspace
	ctx := context.Background()

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for i := 0; pb.Next(); i++ {
			_, _ = ws.UpdateItemField(ctx, i%5, domain.FieldUnitPrice, "1.000")
		}
	})
}

func BenchmarkExport(b *testing.B) {
	f := newFixture()
	doc := f.workspace.Snapshot()
	ctx := context.Background()

	b.Run("pdf", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			if _, err := f.service.ExportPDF(ctx, doc); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("xlsx", func(b *testing.B) {
		b.ReportAllocs()

		for b.Loop() {
			if _, err := f.service.ExportSpreadsheet(ctx, doc); err != nil {
				b.Fatal(err)
			}
		}
	})
}
