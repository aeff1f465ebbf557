// Package csvimport parses line items from delimited text.
//
// The format is deliberately loose: each line picks its own delimiter
// (";" when present, otherwise ","), quoting is not supported, and rows
// that cannot be interpreted are dropped instead of failing the import.
package csvimport

import (
	"regexp"
	"strings"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

const bom = "\ufeff"

var (
	lineBreak  = regexp.MustCompile(`\r?\n`)
	nonNumeric = regexp.MustCompile(`[^0-9.\-]`)
)

// Report summarises one parse.
type Report = ports.ImportReport

// Parser adapts ParseWithReport to ports.LineItemParser.
type Parser struct{}

// Parse implements ports.LineItemParser.
func (Parser) Parse(text string) ([]domain.LineItem, Report) {
	return ParseWithReport(text)
}

// Parse returns the line items found in text.
func Parse(text string) []domain.LineItem {
	items, _ := ParseWithReport(text)
	return items
}

// ParseWithReport returns the parsed items with counts of kept and dropped lines.
// The returned slice is never nil.
func ParseWithReport(text string) ([]domain.LineItem, Report) {
	items := []domain.LineItem{}

	text = strings.TrimSpace(strings.TrimPrefix(text, bom))
	if text == "" {
		return items, Report{}
	}

	lines := lineBreak.Split(text, -1)
	report := Report{Lines: len(lines)}

	for _, line := range lines {
		it, ok := parseLine(line)
		if !ok {
			report.Dropped++
			continue
		}

		items = append(items, it)
	}

	report.Imported = len(items)

	return items, report
}

// ParseRow interprets already split fields with the same rules as a text line.
func ParseRow(fields []string) (domain.LineItem, bool) {
	if len(fields) < 3 {
		return domain.LineItem{}, false
	}

	desc := strings.TrimSpace(fields[0])
	if desc == "" {
		return domain.LineItem{}, false
	}

	return domain.LineItem{
		Description: desc,
		Quantity:    CleanNumber(fields[1]),
		UnitPrice:   CleanNumber(fields[2]),
	}, true
}

func parseLine(line string) (domain.LineItem, bool) {
	sep := ","
	if strings.Contains(line, ";") {
		sep = ";"
	}

	return ParseRow(strings.Split(line, sep))
}
