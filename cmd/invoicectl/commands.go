package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v2"

	"github.com/jsamuelsen/invoice-builder/internal/app"
	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

var errMissingFile = errors.New("a line-item file is required")

func totalsAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errMissingFile
	}

	e, err := newEnv(c)
	if err != nil {
		return err
	}

	items, report, err := e.readItems(c.Context, c.Args().First(), os.Stdin)
	if err != nil {
		return err
	}

	doc := domain.Document{Settings: e.settings, Items: items}
	e.printReport(c.Args().First(), report)
	e.printTotals(e.service.Calculate(c.Context, doc), doc.Settings.TaxRate.String())

	return nil
}

func renderAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errMissingFile
	}

	e, err := newEnv(c)
	if err != nil {
		return err
	}

	path := c.Args().First()

	items, report, err := e.readItems(c.Context, path, os.Stdin)
	if err != nil {
		return err
	}

	e.printReport(path, report)

	settings := e.settings
	if c.IsSet(flagNumber) {
		settings.Number = c.String(flagNumber)
	}

	doc := domain.Document{Settings: settings, Items: items}

	written, err := e.render(c.Context, doc, c.String(flagFormat), c.String(flagOut))
	if err != nil {
		return err
	}

	e.printTotals(e.service.Calculate(c.Context, doc), settings.TaxRate.String())
	fmt.Fprintln(e.stdout, e.color.Color("[green]wrote[reset] "+written))

	return nil
}

// batchResult is the outcome of one batch entry.
type batchResult struct {
	source string
	output string
	report ports.ImportReport
}

func batchAction(c *cli.Context) error {
	files := c.Args().Slice()
	if len(files) == 0 {
		return errMissingFile
	}

	e, err := newEnv(c)
	if err != nil {
		return err
	}

	format := c.String(flagFormat)
	outDir := c.String(flagOut)

	limit := c.Int(flagConcurrency)
	if limit < 1 {
		limit = 1
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(e.stderr),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	results, err := app.MapLimit(c.Context, limit, files, func(ctx context.Context, path string) (batchResult, error) {
		defer func() { _ = bar.Add(1) }()

		items, report, err := e.readItems(ctx, path, nil)
		if err != nil {
			return batchResult{}, err
		}

		settings := e.settings
		settings.Number = numberFor(settings.Number, path)

		written, err := e.render(ctx, domain.Document{Settings: settings, Items: items}, format, outDir)
		if err != nil {
			return batchResult{}, fmt.Errorf("%s: %w", path, err)
		}

		return batchResult{source: path, output: written, report: report}, nil
	})
	_ = bar.Finish()

	if err != nil {
		return err
	}

	for _, r := range results {
		e.printReport(r.source, r.report)
		fmt.Fprintln(e.stdout, e.color.Color("[green]wrote[reset] "+r.output))
	}

	return nil
}

// numberFor derives a document number from the input file name, prefixed by
// the configured number when there is one.
func numberFor(base, path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if base == "" {
		return stem
	}

	return base + "-" + stem
}

// render exports doc and writes it under dir, returning the written path.
func (e *env) render(ctx context.Context, doc domain.Document, format, dir string) (string, error) {
	file, err := e.service.Export(ctx, doc, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, file.Filename)
	if err := os.WriteFile(path, file.Data, 0o600); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}

	return path, nil
}

func (e *env) printReport(source string, report ports.ImportReport) {
	if report.Imported == 0 {
		fmt.Fprintln(e.stderr, e.color.Color(fmt.Sprintf("[yellow]%s: no line items found", source)))
		return
	}

	if report.Dropped > 0 {
		fmt.Fprintln(e.stderr, e.color.Color(fmt.Sprintf(
			"[yellow]%s: %d of %d lines dropped", source, report.Dropped, report.Lines)))
	}
}

func (e *env) printTotals(calc app.Calculation, taxRate string) {
	rows := []struct {
		label string
		value string
	}{
		{"Sub Total", calc.Formatted.Subtotal},
		{"Tax (" + taxRate + "%)", calc.Formatted.Tax},
		{"Discount", calc.Formatted.Discount},
	}

	for _, r := range rows {
		fmt.Fprintf(e.stdout, "%-12s %s\n", r.label, r.value)
	}

	fmt.Fprintln(e.stdout, e.color.Color(fmt.Sprintf("[bold]%-12s %s", "GRAND TOTAL", calc.Formatted.GrandTotal)))
}
