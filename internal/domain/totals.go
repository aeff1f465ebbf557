package domain

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Totals is derived from the items and settings and is never stored.
type Totals struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Discount   decimal.Decimal
	GrandTotal decimal.Decimal
}

// CalculateTotals sums the items and applies a percentage tax and a flat discount.
// The grand total is clamped at zero.
func CalculateTotals(items []LineItem, taxRate, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.Amount())
	}

	tax := subtotal.Mul(taxRate).Div(hundred)

	grand := subtotal.Add(tax).Sub(discount)
	if grand.IsNegative() {
		grand = decimal.Zero
	}

	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		Discount:   discount,
		GrandTotal: grand,
	}
}

// FormattedTotals holds display strings for Totals.
type FormattedTotals struct {
	Subtotal   string
	Tax        string
	Discount   string
	GrandTotal string
}

// Format renders every total with f.
func (t Totals) Format(f MoneyFormatter) FormattedTotals {
	return FormattedTotals{
		Subtotal:   f.Format(t.Subtotal),
		Tax:        f.Format(t.Tax),
		Discount:   f.Format(t.Discount),
		GrandTotal: f.Format(t.GrandTotal),
	}
}
