package app

import (
	"time"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

// View is everything the form and its preview display for one document state.
// It is rebuilt from scratch on every change.
type View struct {
	Header  HeaderView    `json:"header"`
	Items   []EditableRow `json:"items"`
	Preview []PreviewRow  `json:"preview"`
	Totals  TotalsView    `json:"totals"`
}

// HeaderView holds the text fields of the preview header and contact bar.
type HeaderView struct {
	DocumentType   string      `json:"documentType"`
	Number         string      `json:"number"`
	IssueDate      string      `json:"issueDate"`
	DueDate        string      `json:"dueDate,omitempty"`
	Currency       string      `json:"currency"`
	CompanyName    string      `json:"companyName"`
	CompanyTagline string      `json:"companyTagline"`
	CompanyAddress string      `json:"companyAddress"`
	CompanyWebsite string      `json:"companyWebsite"`
	CompanyEmail   string      `json:"companyEmail"`
	CompanyPhone   string      `json:"companyPhone"`
	ClientName     string      `json:"clientName"`
	ClientAddress  string      `json:"clientAddress"`
	Notes          string      `json:"notes"`
	Contact        ContactView `json:"contact"`
}

// ContactView is the contact bar under the preview.
type ContactView struct {
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// EditableRow is one row of the item editor.
type EditableRow struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Amount      string `json:"amount"`
}

// PreviewRow is one read-only row of the preview table.
type PreviewRow struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Amount      string `json:"amount"`
}

// TotalsView holds the formatted totals and the raw tax rate label.
type TotalsView struct {
	Subtotal     string `json:"subtotal"`
	Tax          string `json:"tax"`
	Discount     string `json:"discount"`
	GrandTotal   string `json:"grandTotal"`
	TaxRateLabel string `json:"taxRateLabel"`
}

// Render builds the View for doc. A missing issue date displays as now.
func Render(doc domain.Document, now time.Time) View {
	s := doc.Settings
	f := s.Formatter()

	items := make([]EditableRow, 0, len(doc.Items))
	preview := make([]PreviewRow, 0, len(doc.Items))

	for i, it := range doc.Items {
		amount := f.Format(it.Amount())

		items = append(items, EditableRow{
			Index:       i,
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			UnitPrice:   it.UnitPrice.String(),
			Amount:      amount,
		})

		preview = append(preview, PreviewRow{
			Number:      i + 1,
			Description: it.Description,
			Quantity:    it.Quantity.String(),
			UnitPrice:   f.Format(it.UnitPrice),
			Amount:      amount,
		})
	}

	totals := doc.Totals().Format(f)

	var due string
	if !s.DueDate.IsZero() {
		due = domain.FormatDisplayDate(s.DueDate)
	}

	return View{
		Header: HeaderView{
			DocumentType:   s.TypeLabel(),
			Number:         s.NumberLabel(),
			IssueDate:      domain.FormatDisplayDate(s.IssueDateOr(now)),
			DueDate:        due,
			Currency:       f.Code(),
			CompanyName:    s.Company.Name,
			CompanyTagline: s.Company.Tagline,
			CompanyAddress: s.Company.Address,
			CompanyWebsite: s.Company.Website,
			CompanyEmail:   s.Company.Email,
			CompanyPhone:   s.Company.Phone,
			ClientName:     s.Client.Name,
			ClientAddress:  s.Client.Address,
			Notes:          s.Notes,
			Contact: ContactView{
				Phone:   s.Company.Phone,
				Email:   s.Company.Email,
				Address: s.Company.Address,
			},
		},
		Items:   items,
		Preview: preview,
		Totals: TotalsView{
			Subtotal:     totals.Subtotal,
			Tax:          totals.Tax,
			Discount:     totals.Discount,
			GrandTotal:   totals.GrandTotal,
			TaxRateLabel: s.TaxRate.String(),
		},
	}
}
