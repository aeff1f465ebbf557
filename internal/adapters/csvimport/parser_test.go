package csvimport

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

func assertItem(t *testing.T, desc, qty, price string, got domain.LineItem) {
	t.Helper()
	assert.Equal(t, desc, got.Description)
	assert.True(t, decimal.RequireFromString(qty).Equal(got.Quantity), "quantity %s", got.Quantity)
	assert.True(t, decimal.RequireFromString(price).Equal(got.UnitPrice), "price %s", got.UnitPrice)
}

func TestParse_SingleLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		desc  string
		qty   string
		price string
	}{
		{"comma separated", "Widget,2,500", "Widget", "2", "500"},
		{"semicolon separated", "Widget;2;500", "Widget", "2", "500"},
		{"noise in numbers", "Item,abc,$50", "Item", "0", "50"},
		{"trimmed fields", "  Design ,  3 , 1.5 ", "Design", "3", "1.5"},
		{"semicolon wins over comma", "Rent, monthly;1;1,000", "Rent, monthly", "1", "1000"},
		{"extra columns ignored", "Pen,10,2,stationery", "Pen", "10", "2"},
		{"negative kept", "Refund,1,-20", "Refund", "1", "-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Parse(tt.input)
			require.Len(t, items, 1)
			assertItem(t, tt.desc, tt.qty, tt.price, items[0])
		})
	}
}

func TestParse_DropsUninterpretableLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"two fields", "BadRow,onlyTwo"},
		{"empty description", ",1,2"},
		{"blank description", "   ;1;2"},
		{"only whitespace", "  \n \r\n "},
		{"empty", ""},
		{"bom only", "\ufeff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := Parse(tt.input)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestParseWithReport_MixedFile(t *testing.T) {
	input := "\ufeffConsultation,1,300\r\nBadRow,onlyTwo\nImplementation;2;2500\n\nSupplies,x,750\n"

	items, report := ParseWithReport(input)

	require.Len(t, items, 3)
	assertItem(t, "Consultation", "1", "300", items[0])
	assertItem(t, "Implementation", "2", "2500", items[1])
	assertItem(t, "Supplies", "0", "750", items[2])

	assert.Equal(t, Report{Lines: 5, Imported: 3, Dropped: 2}, report)
}

func TestParseRow(t *testing.T) {
	_, ok := ParseRow([]string{"only", "two"})
	assert.False(t, ok)

	it, ok := ParseRow([]string{"Desk", "2 pcs", "Rp 1.500"})
	require.True(t, ok)
	assertItem(t, "Desk", "2", "1.5", it)
}

func TestParser_ImplementsPort(t *testing.T) {
	var p ports.LineItemParser = Parser{}

	items, report := p.Parse("Widget,2,500\nBadRow,onlyTwo")

	require.Len(t, items, 1)
	assertItem(t, "Widget", "2", "500", items[0])
	assert.Equal(t, ports.ImportReport{Lines: 2, Imported: 1, Dropped: 1}, report)
}
