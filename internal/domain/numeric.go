package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// maxMagnitude is the largest power of ten a float64 can hold. Anything
	// above it is treated as infinite.
	maxMagnitude = 308

	// maxFractionDigits bounds the scale kept from input. Smaller values
	// underflow to zero.
	maxFractionDigits = 18
)

// CoerceNumber converts free-form numeric text to a decimal.
// Empty, non-numeric and non-finite input (beyond float64 range) yields
// zero; it never fails.
func CoerceNumber(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}

	return bounded(d)
}

// bounded zeroes values outside float64 range and rounds away excess
// fraction digits. It inspects only the exponent and digit count, so huge
// exponents are never expanded.
func bounded(d decimal.Decimal) decimal.Decimal {
	if d.IsZero() {
		return decimal.Zero
	}

	exp := int(d.Exponent())

	magnitude := exp + d.NumDigits() - 1
	if magnitude > maxMagnitude || magnitude < -maxFractionDigits {
		return decimal.Zero
	}

	if exp < -maxFractionDigits {
		return d.Round(maxFractionDigits)
	}

	return d
}

// CoerceAny converts a loosely typed value (as decoded from JSON or YAML) to a decimal.
func CoerceAny(v any) decimal.Decimal {
	switch n := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return bounded(n)
	case string:
		return CoerceNumber(n)
	case json.Number:
		return CoerceNumber(n.String())
	case float64:
		return coerceFloat(n)
	case float32:
		return coerceFloat(float64(n))
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case int32:
		return decimal.NewFromInt(int64(n))
	case uint64:
		return CoerceNumber(strconv.FormatUint(n, 10))
	case bool:
		if n {
			return decimal.NewFromInt(1)
		}

		return decimal.Zero
	default:
		return decimal.Zero
	}
}

func coerceFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}

	return decimal.NewFromFloat(f)
}
