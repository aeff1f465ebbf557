package config

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

// DocumentSettings returns the settings a new document starts with. The issue
// date is today in the local time zone.
func (c InvoiceConfig) DocumentSettings(now time.Time) domain.DocumentSettings {
	return domain.DocumentSettings{
		DocumentType: c.DocumentType,
		IssueDate:    time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()),
		Company: domain.Party{
			Name:    c.Company.Name,
			Tagline: c.Company.Tagline,
			Address: c.Company.Address,
			Email:   c.Company.Email,
			Phone:   c.Company.Phone,
			Website: c.Company.Website,
		},
		Currency: c.Currency,
		TaxRate:  decimal.NewFromFloat(c.TaxRate),
		Discount: decimal.NewFromFloat(c.Discount),
		Notes:    c.Notes,
		Payment: domain.PaymentDetails{
			BankName:      c.Payment.BankName,
			AccountNumber: c.Payment.AccountNumber,
		},
	}
}
