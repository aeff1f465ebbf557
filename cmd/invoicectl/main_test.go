package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const itemsCSV = "Consultation,1,300\nProject Draft;1;2400\nBadRow,onlyTwo\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cliApp := newApp()
	cliApp.Writer = &out
	cliApp.ErrWriter = &errOut

	err = cliApp.Run(append([]string{"invoicectl", "--no-color"}, args...))

	return out.String(), errOut.String(), err
}

func TestTotalsCommand(t *testing.T) {
	dir := t.TempDir()
	items := writeFile(t, dir, "items.csv", itemsCSV)

	stdout, stderr, err := runCLI(t, "--tax-rate", "10", "--discount", "200", "totals", items)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Rp\u00a02.700")
	assert.Contains(t, stdout, "Tax (10%)")
	assert.Contains(t, stdout, "Rp\u00a0270")
	assert.Contains(t, stdout, "GRAND TOTAL  Rp\u00a02.770")
	assert.Contains(t, stderr, "1 of 3 lines dropped")
	assert.NotContains(t, stdout, "\x1b[", "colour codes must be disabled")
}

func TestTotalsCommand_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	items := writeFile(t, dir, "items.csv", itemsCSV)
	settings := writeFile(t, dir, "doc.yaml", "invoice:\n  currency: USD\n  tax_rate: 0\n")

	stdout, _, err := runCLI(t, "--settings", settings, "totals", items)
	require.NoError(t, err)

	assert.Contains(t, stdout, "$2,700")
}

func TestTotalsCommand_InvalidSettings(t *testing.T) {
	dir := t.TempDir()
	items := writeFile(t, dir, "items.csv", itemsCSV)
	settings := writeFile(t, dir, "doc.yaml", "invoice:\n  currency: RUPIAH\n")

	_, _, err := runCLI(t, "--settings", settings, "totals", items)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invoice.currency")
}

func TestTotalsCommand_MissingArgument(t *testing.T) {
	_, _, err := runCLI(t, "totals")

	assert.ErrorIs(t, err, errMissingFile)
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		format   string
		filename string
		magic    string
	}{
		{"pdf", "invoice-INV-7.pdf", "%PDF-"},
		{"xlsx", "invoice-INV-7.xlsx", "PK"},
		{"bundle", "invoice-INV-7.zip", "PK"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := t.TempDir()
			items := writeFile(t, dir, "items.csv", itemsCSV)
			out := filepath.Join(dir, "out")

			stdout, _, err := runCLI(t, "render", "--format", tt.format, "--out", out, "--number", "INV-7", items)
			require.NoError(t, err)

			written := filepath.Join(out, tt.filename)
			assert.Contains(t, stdout, "wrote "+written)

			data, err := os.ReadFile(written)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte(tt.magic)))
		})
	}
}

func TestRenderCommand_NumberWithSlashesStaysInOutputDir(t *testing.T) {
	dir := t.TempDir()
	items := writeFile(t, dir, "items.csv", itemsCSV)
	out := filepath.Join(dir, "out")

	for _, number := range []string{"INV/2024/001", "../../escaped"} {
		_, _, err := runCLI(t, "render", "--format", "pdf", "--out", out, "--number", number, items)
		require.NoError(t, err, number)
	}

	entries, err := os.ReadDir(out)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	assert.ElementsMatch(t, []string{"invoice-INV-2024-001.pdf", "invoice-..-..-escaped.pdf"}, names)
	assert.NoFileExists(t, filepath.Join(dir, "escaped.pdf"))
}

func TestRenderCommand_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	items := writeFile(t, dir, "items.csv", itemsCSV)

	_, _, err := runCLI(t, "render", "--format", "docx", "--out", dir, items)

	assert.Error(t, err)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "march.csv", itemsCSV)
	second := writeFile(t, dir, "april.csv", "Hosting,12,150\n")
	empty := writeFile(t, dir, "may.csv", "nothing here\n")
	out := filepath.Join(dir, "out")

	stdout, stderr, err := runCLI(t, "batch", "--concurrency", "2", "--out", out, first, second, empty)
	require.NoError(t, err)

	for _, name := range []string{"invoice-march.pdf", "invoice-april.pdf", "invoice-may.pdf"} {
		assert.FileExists(t, filepath.Join(out, name))
		assert.Contains(t, stdout, name)
	}

	assert.Contains(t, stderr, "may.csv: no line items found")
}

func TestBatchCommand_MissingFile(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runCLI(t, "batch", "--out", dir, filepath.Join(dir, "absent.csv"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "absent.csv")
}

func TestNumberFor(t *testing.T) {
	assert.Equal(t, "march", numberFor("", "/tmp/march.csv"))
	assert.Equal(t, "INV-march", numberFor("INV", "data/march.xlsx"))
}
