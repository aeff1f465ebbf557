package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/mitchellh/colorstring"
	"github.com/urfave/cli/v2"

	"github.com/jsamuelsen/invoice-builder/internal/adapters/csvimport"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/logo"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/pdf"
	"github.com/jsamuelsen/invoice-builder/internal/adapters/spreadsheet"
	"github.com/jsamuelsen/invoice-builder/internal/app"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/platform/config"
	"github.com/jsamuelsen/invoice-builder/internal/platform/logging"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

const (
	flagSettings    = "settings"
	flagCurrency    = "currency"
	flagTaxRate     = "tax-rate"
	flagDiscount    = "discount"
	flagLogo        = "logo"
	flagNoColor     = "no-color"
	flagVerbose     = "verbose"
	flagFormat      = "format"
	flagOut         = "out"
	flagNumber      = "number"
	flagConcurrency = "concurrency"

	logoWait = 10 * time.Second
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "invoicectl",
		Usage:   "compute totals and render invoices from CSV or XLSX line items",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagSettings,
				Aliases: []string{"s"},
				Usage:   "document settings YAML `FILE`",
				EnvVars: []string{"INVOICECTL_SETTINGS"},
			},
			&cli.StringFlag{Name: flagCurrency, Usage: "override the currency `CODE`"},
			&cli.StringFlag{Name: flagTaxRate, Usage: "override the tax rate `PERCENT`"},
			&cli.StringFlag{Name: flagDiscount, Usage: "override the discount `AMOUNT`"},
			&cli.StringFlag{Name: flagLogo, Usage: "logo `LOCATION` (path, http(s) URL or s3://bucket/key)"},
			&cli.BoolFlag{Name: flagNoColor, Usage: "disable coloured output", EnvVars: []string{"NO_COLOR"}},
			&cli.BoolFlag{Name: flagVerbose, Aliases: []string{"v"}, Usage: "log debug detail to stderr"},
		},
		Commands: []*cli.Command{
			{
				Name:      "totals",
				Usage:     "print the totals of a line-item file",
				ArgsUsage: "FILE (use - for CSV on stdin)",
				Action:    totalsAction,
			},
			{
				Name:      "render",
				Usage:     "render one line-item file to a document",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					formatFlag(),
					outFlag(),
					&cli.StringFlag{Name: flagNumber, Aliases: []string{"n"}, Usage: "document `NUMBER`"},
				},
				Action: renderAction,
			},
			{
				Name:      "batch",
				Usage:     "render many line-item files concurrently, one document each",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					formatFlag(),
					outFlag(),
					&cli.IntFlag{
						Name:  flagConcurrency,
						Value: runtime.NumCPU(),
						Usage: "maximum documents rendered at once",
					},
				},
				Action: batchAction,
			},
		},
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagFormat,
		Aliases: []string{"f"},
		Value:   app.FormatPDF,
		Usage:   "output `FORMAT`: pdf, xlsx or bundle",
	}
}

func outFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    flagOut,
		Aliases: []string{"o"},
		Value:   ".",
		Usage:   "output `DIR`",
	}
}

// env is what every command needs, built from the global flags.
type env struct {
	service  *app.InvoiceService
	settings domain.DocumentSettings
	stdout   io.Writer
	stderr   io.Writer
	color    colorstring.Colorize
	logger   *slog.Logger
}

func newEnv(c *cli.Context) (*env, error) {
	level := "warn"
	if c.Bool(flagVerbose) {
		level = "debug"
	}

	logger := logging.NewWithWriter(&logging.Config{
		Level:   level,
		Format:  "pretty",
		Service: "invoicectl",
		Version: Version,
	}, c.App.ErrWriter)

	doc, err := config.LoadDocument(c.String(flagSettings))
	if err != nil {
		return nil, err
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	settings := doc.DocumentSettings(time.Now())
	applyOverrides(c, &settings)

	service := app.NewInvoiceService(app.InvoiceServiceConfig{
		Parser:       csvimport.Parser{},
		Spreadsheets: spreadsheet.Codec{},
		PDF:          pdf.New(pdf.Config{Compress: true, Creator: "invoicectl", Logger: logger}),
		Logos:        loadLogo(c.Context, c.String(flagLogo), logger),
		Logger:       logger,
	})

	return &env{
		service:  service,
		settings: settings,
		stdout:   c.App.Writer,
		stderr:   c.App.ErrWriter,
		color: colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: c.Bool(flagNoColor),
			Reset:   true,
		},
		logger: logger,
	}, nil
}

func applyOverrides(c *cli.Context, s *domain.DocumentSettings) {
	if c.IsSet(flagCurrency) {
		s.Currency = c.String(flagCurrency)
	}

	if c.IsSet(flagTaxRate) {
		s.TaxRate = domain.CoerceNumber(c.String(flagTaxRate))
	}

	if c.IsSet(flagDiscount) {
		s.Discount = domain.CoerceNumber(c.String(flagDiscount))
	}
}

// loadLogo fetches the logo before rendering starts. Failures are logged and
// documents render without it.
func loadLogo(ctx context.Context, location string, logger *slog.Logger) ports.LogoProvider {
	if location == "" {
		return nil
	}

	source, err := logo.NewSource(ctx, logo.SourceConfig{Location: location, Logger: logger})
	if err != nil {
		logger.Warn("logo unavailable", slog.Any("error", err))
		return nil
	}

	loader := logo.NewLoader(logo.LoaderConfig{Source: source, Timeout: logoWait, Logger: logger})
	loader.Start(ctx)
	<-loader.Done()

	return loader
}

// readItems imports one file, or CSV from stdin when path is "-".
func (e *env) readItems(ctx context.Context, path string, stdin io.Reader) ([]domain.LineItem, ports.ImportReport, error) {
	if path == "-" {
		return e.service.ImportFile(ctx, "stdin.csv", stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ports.ImportReport{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return e.service.ImportFile(ctx, path, f)
}
