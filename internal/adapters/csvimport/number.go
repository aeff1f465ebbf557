package csvimport

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

// CleanNumber strips currency symbols, grouping spaces and other noise,
// keeping digits, dots and minus signs, then coerces the rest.
func CleanNumber(raw string) decimal.Decimal {
	return domain.CoerceNumber(nonNumeric.ReplaceAllString(strings.TrimSpace(raw), ""))
}
