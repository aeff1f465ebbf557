package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is used when no currency code is supplied.
const DefaultCurrency = "IDR"

const nbsp = "\u00a0"

type currencyStyle struct {
	locale language.Tag
	prefix string
	suffix string
}

var knownCurrencies = map[string]currencyStyle{
	"IDR": {locale: language.Indonesian, prefix: "Rp" + nbsp},
	"USD": {locale: language.AmericanEnglish, prefix: "$"},
	"EUR": {locale: language.German, suffix: nbsp + "€"},
}

// MoneyFormatter renders whole-unit amounts for a single currency.
// The zero value is not usable; construct it with NewMoneyFormatter.
type MoneyFormatter struct {
	code  string
	style currencyStyle
	group string
}

// NewMoneyFormatter returns a formatter for the ISO 4217 code.
// IDR, USD and EUR use their own display locale. Any other valid code is
// rendered in the German locale with the code as suffix. Empty or unknown
// codes fall back to IDR.
func NewMoneyFormatter(code string) MoneyFormatter {
	code = NormalizeCurrency(code)

	style, ok := knownCurrencies[code]
	if !ok {
		style = currencyStyle{locale: language.German, suffix: nbsp + code}
	}

	return MoneyFormatter{
		code:  code,
		style: style,
		group: groupSeparator(style.locale),
	}
}

// groupSeparator asks the locale printer how it groups thousands.
func groupSeparator(tag language.Tag) string {
	sample := message.NewPrinter(tag).Sprintf("%d", 1000)
	return strings.Trim(sample, "0123456789")
}

// NormalizeCurrency upper-cases and validates a currency code,
// returning DefaultCurrency when it is not a recognised ISO 4217 code.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return DefaultCurrency
	}

	return unit.String()
}

// Code returns the normalised currency code.
func (f MoneyFormatter) Code() string {
	return f.code
}

// Format rounds to whole units (half away from zero) and applies grouping.
// Amounts of any size are grouped exactly; nothing is narrowed to int64.
func (f MoneyFormatter) Format(amount decimal.Decimal) string {
	whole := amount.Round(0)

	sign := ""
	if whole.IsNegative() {
		sign = "-"
		whole = whole.Neg()
	}

	return sign + f.style.prefix + groupDigits(whole.String(), f.group) + f.style.suffix
}

func groupDigits(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := len(digits) % 3
	if head == 0 {
		head = 3
	}

	var b strings.Builder

	b.Grow(len(digits) + len(digits)/3*len(sep))
	b.WriteString(digits[:head])

	for i := head; i < len(digits); i += 3 {
		b.WriteString(sep)
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}

// FormatFloat is a convenience wrapper over Format.
func (f MoneyFormatter) FormatFloat(amount float64) string {
	return f.Format(coerceFloat(amount))
}

// FormatAny coerces a loosely typed value and formats it; absent input renders as zero.
func (f MoneyFormatter) FormatAny(v any) string {
	return f.Format(CoerceAny(v))
}
