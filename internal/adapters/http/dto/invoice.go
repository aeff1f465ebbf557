package dto

import (
	"time"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
	"github.com/jsamuelsen/invoice-builder/internal/ports"
)

// DateLayout is the wire format of document dates.
const DateLayout = time.DateOnly

// MaxItems bounds the number of line items in one request.
const MaxItems = 1000

// LineItem is one row of a document.
type LineItem struct {
	Description string `json:"description" validate:"max=500"`
	Quantity    Number `json:"quantity"`
	UnitPrice   Number `json:"unitPrice"`
	Amount      Number `json:"amount,omitempty"`
}

// Party is a company or client block.
type Party struct {
	Name    string `json:"name" validate:"max=200"`
	Tagline string `json:"tagline,omitempty" validate:"max=200"`
	Address string `json:"address" validate:"max=1000"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   string `json:"phone,omitempty" validate:"max=64"`
	Website string `json:"website,omitempty" validate:"max=200"`
}

// Payment holds the payment instructions.
type Payment struct {
	BankName      string `json:"bankName,omitempty" validate:"max=200"`
	AccountNumber string `json:"accountNumber,omitempty" validate:"max=64"`
}

// Settings is everything on the form except the line items.
type Settings struct {
	DocumentType string  `json:"documentType" validate:"max=40"`
	Number       string  `json:"number" validate:"max=64"`
	IssueDate    string  `json:"issueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate      string  `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Company      Party   `json:"company"`
	Client       Party   `json:"client"`
	Currency     string  `json:"currency"`
	TaxRate      Number  `json:"taxRate"`
	Discount     Number  `json:"discount"`
	Notes        string  `json:"notes" validate:"max=2000"`
	Payment      Payment `json:"payment"`
}

// DocumentRequest is a complete document posted for stateless export.
type DocumentRequest struct {
	Settings Settings   `json:"settings"`
	Items    []LineItem `json:"items" validate:"max=1000,dive"`
}

// TotalsRequest asks for the totals of a set of items.
type TotalsRequest struct {
	Items    []LineItem `json:"items" validate:"max=1000,dive"`
	TaxRate  Number     `json:"taxRate"`
	Discount Number     `json:"discount"`
	Currency string     `json:"currency"`
}

// FormattedTotals holds display strings for the totals.
type FormattedTotals struct {
	Subtotal   string `json:"subtotal"`
	Tax        string `json:"tax"`
	Discount   string `json:"discount"`
	GrandTotal string `json:"grandTotal"`
}

// TotalsResponse carries raw and formatted totals.
type TotalsResponse struct {
	Currency   string          `json:"currency"`
	Subtotal   Number          `json:"subtotal"`
	Tax        Number          `json:"tax"`
	Discount   Number          `json:"discount"`
	GrandTotal Number          `json:"grandTotal"`
	Formatted  FormattedTotals `json:"formatted"`
}

// ImportReport counts the rows seen by an import.
type ImportReport struct {
	Lines    int `json:"lines"`
	Imported int `json:"imported"`
	Dropped  int `json:"dropped"`
}

// ParseItemsRequest carries CSV text to parse.
type ParseItemsRequest struct {
	Text string `json:"text"`
}

// ParseItemsResponse lists the parsed items.
type ParseItemsResponse struct {
	Items  []LineItem   `json:"items"`
	Report ImportReport `json:"report"`
}

// UpdateItemRequest edits one field of a workspace row.
type UpdateItemRequest struct {
	Field string `json:"field" validate:"notempty"`
	Value Text   `json:"value"`
}

// ToDomain converts the request to a document.
// Dates are assumed to have passed validation.
func (r DocumentRequest) ToDomain() domain.Document {
	return domain.Document{
		Settings: r.Settings.ToDomain(),
		Items:    ItemsToDomain(r.Items),
	}
}

// ToDomain converts the settings.
func (s Settings) ToDomain() domain.DocumentSettings {
	return domain.DocumentSettings{
		DocumentType: s.DocumentType,
		Number:       s.Number,
		IssueDate:    parseDate(s.IssueDate),
		DueDate:      parseDate(s.DueDate),
		Company:      s.Company.toDomain(),
		Client:       s.Client.toDomain(),
		Currency:     s.Currency,
		TaxRate:      s.TaxRate.Decimal,
		Discount:     s.Discount.Decimal,
		Notes:        s.Notes,
		Payment: domain.PaymentDetails{
			BankName:      s.Payment.BankName,
			AccountNumber: s.Payment.AccountNumber,
		},
	}
}

// SettingsFromDomain converts settings for responses.
func SettingsFromDomain(s domain.DocumentSettings) Settings {
	return Settings{
		DocumentType: s.DocumentType,
		Number:       s.Number,
		IssueDate:    formatDate(s.IssueDate),
		DueDate:      formatDate(s.DueDate),
		Company:      partyFromDomain(s.Company),
		Client:       partyFromDomain(s.Client),
		Currency:     s.Currency,
		TaxRate:      NewNumber(s.TaxRate),
		Discount:     NewNumber(s.Discount),
		Notes:        s.Notes,
		Payment: Payment{
			BankName:      s.Payment.BankName,
			AccountNumber: s.Payment.AccountNumber,
		},
	}
}

// ItemsToDomain converts request rows. Amount is ignored; it is always derived.
func ItemsToDomain(items []LineItem) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, domain.LineItem{
			Description: it.Description,
			Quantity:    it.Quantity.Decimal,
			UnitPrice:   it.UnitPrice.Decimal,
		})
	}

	return out
}

// ItemsFromDomain converts rows for responses, including their amounts.
func ItemsFromDomain(items []domain.LineItem) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		out = append(out, LineItem{
			Description: it.Description,
			Quantity:    NewNumber(it.Quantity),
			UnitPrice:   NewNumber(it.UnitPrice),
			Amount:      NewNumber(it.Amount()),
		})
	}

	return out
}

// ReportFromPort converts an import report.
func ReportFromPort(r ports.ImportReport) ImportReport {
	return ImportReport{Lines: r.Lines, Imported: r.Imported, Dropped: r.Dropped}
}

// NewTotalsResponse builds the response for a computed set of totals.
func NewTotalsResponse(currency string, t domain.Totals, f domain.FormattedTotals) TotalsResponse {
	return TotalsResponse{
		Currency:   currency,
		Subtotal:   NewNumber(t.Subtotal),
		Tax:        NewNumber(t.Tax),
		Discount:   NewNumber(t.Discount),
		GrandTotal: NewNumber(t.GrandTotal),
		Formatted: FormattedTotals{
			Subtotal:   f.Subtotal,
			Tax:        f.Tax,
			Discount:   f.Discount,
			GrandTotal: f.GrandTotal,
		},
	}
}

func (p Party) toDomain() domain.Party {
	return domain.Party(p)
}

func partyFromDomain(p domain.Party) Party {
	return Party(p)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}

	return t
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(DateLayout)
}
