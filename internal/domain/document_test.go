package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Filename(t *testing.T) {
	tests := []struct {
		name     string
		docType  string
		number   string
		ext      string
		expected string
	}{
		{"invoice with number", "INVOICE", "INV-001", "pdf", "invoice-INV-001.pdf"},
		{"quotation without number", "Quotation", "", "pdf", "quotation-doc.pdf"},
		{"default type", "", "7", "xlsx", "invoice-7.xlsx"},
		{"slashes in number", "INVOICE", "INV/2024/001", "pdf", "invoice-INV-2024-001.pdf"},
		{"backslashes in number", "INVOICE", `INV\7`, "pdf", "invoice-INV-7.pdf"},
		{"parent directory in number", "INVOICE", "../../etc/x", "pdf", "invoice-..-..-etc-x.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{Settings: DocumentSettings{DocumentType: tt.docType, Number: tt.number}}
			name := doc.Filename(tt.ext)
			assert.Equal(t, tt.expected, name)
			assert.NotContains(t, name, "/")
		})
	}
}

func TestDocumentSettings_Fallbacks(t *testing.T) {
	s := DocumentSettings{Company: Party{Name: "Acme", Phone: "+62 811"}}

	assert.Equal(t, "Acme", s.BankName())
	assert.Equal(t, "+62 811", s.AccountNumber())
	assert.Equal(t, "-", s.NumberLabel())
	assert.Equal(t, "INVOICE", s.TypeLabel())

	s.Payment = PaymentDetails{BankName: "BCA", AccountNumber: "123"}
	assert.Equal(t, "BCA", s.BankName())
	assert.Equal(t, "123", s.AccountNumber())
}

func TestDocumentSettings_IssueDateOr(t *testing.T) {
	now := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "9/3/2024", FormatDisplayDate(DocumentSettings{}.IssueDateOr(now)))

	issued := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "25/12/2023", FormatDisplayDate(DocumentSettings{IssueDate: issued}.IssueDateOr(now)))
}

func TestLogo_Ratio(t *testing.T) {
	var missing *Logo
	assert.InDelta(t, 0.0, missing.Ratio(), 0.0001)
	assert.InDelta(t, 0.5, (&Logo{Width: 200, Height: 100}).Ratio(), 0.0001)
}
