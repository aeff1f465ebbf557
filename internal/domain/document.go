package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDocumentType is used when a document does not name its type.
const DefaultDocumentType = "INVOICE"

// Party is a company or client block printed on the document.
type Party struct {
	Name    string
	Tagline string
	Address string
	Email   string
	Phone   string
	Website string
}

// PaymentDetails describes where the client should pay.
type PaymentDetails struct {
	BankName      string
	AccountNumber string
}

// DocumentSettings holds everything on the form except the line items.
type DocumentSettings struct {
	DocumentType string
	Number       string
	IssueDate    time.Time
	DueDate      time.Time
	Company      Party
	Client       Party
	Currency     string
	TaxRate      decimal.Decimal
	Discount     decimal.Decimal
	Notes        string
	Payment      PaymentDetails
}

// BankName falls back to the company name when no bank is configured.
func (s DocumentSettings) BankName() string {
	if s.Payment.BankName != "" {
		return s.Payment.BankName
	}

	return s.Company.Name
}

// AccountNumber falls back to the company phone when no account is configured.
func (s DocumentSettings) AccountNumber() string {
	if s.Payment.AccountNumber != "" {
		return s.Payment.AccountNumber
	}

	return s.Company.Phone
}

// TypeLabel returns the document type or the default.
func (s DocumentSettings) TypeLabel() string {
	if t := strings.TrimSpace(s.DocumentType); t != "" {
		return t
	}

	return DefaultDocumentType
}

// NumberLabel returns the document number or "-" when unset.
func (s DocumentSettings) NumberLabel() string {
	if s.Number != "" {
		return s.Number
	}

	return "-"
}

// IssueDateOr returns the issue date, or now when it is unset.
func (s DocumentSettings) IssueDateOr(now time.Time) time.Time {
	if s.IssueDate.IsZero() {
		return now
	}

	return s.IssueDate
}

// Formatter returns the money formatter for the document currency.
func (s DocumentSettings) Formatter() MoneyFormatter {
	return NewMoneyFormatter(s.Currency)
}

// Document is a complete set of settings and items passed to renderers.
type Document struct {
	Settings DocumentSettings
	Items    []LineItem
}

// Totals computes the document totals.
func (d Document) Totals() Totals {
	return CalculateTotals(d.Items, d.Settings.TaxRate, d.Settings.Discount)
}

// Filename returns "{type}-{number}.{ext}" with the type lower-cased and "doc"
// standing in for a missing number. Path separators in the number become
// dashes so the result is always a single path element.
func (d Document) Filename(ext string) string {
	number := filenameSafe.Replace(d.Settings.Number)
	if number == "" {
		number = "doc"
	}

	return fmt.Sprintf("%s-%s.%s", strings.ToLower(d.Settings.TypeLabel()), number, ext)
}

var filenameSafe = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")

// FormatDisplayDate renders a date as d/m/yyyy.
func FormatDisplayDate(t time.Time) string {
	return t.Format("2/1/2006")
}

// RenderedFile is the output of an exporter.
type RenderedFile struct {
	Filename    string
	ContentType string
	Data        []byte
	Pages       int
}
