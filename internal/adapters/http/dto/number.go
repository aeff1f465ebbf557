package dto

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"

	"github.com/jsamuelsen/invoice-builder/internal/domain"
)

// Number is a lenient numeric field. It accepts JSON numbers, numeric strings,
// booleans and null; anything unparseable becomes zero.
type Number struct {
	decimal.Decimal
}

// NewNumber wraps d.
func NewNumber(d decimal.Decimal) Number {
	return Number{Decimal: d}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	var v any

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(&v); err != nil {
		return err
	}

	n.Decimal = domain.CoerceAny(v)

	return nil
}

// MarshalJSON writes the value as a bare JSON number.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// Text is a lenient string field that also accepts numbers and booleans,
// keeping their literal JSON text.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch v.(type) {
	case nil:
		*t = ""
	case float64, bool:
		*t = Text(bytes.TrimSpace(data))
	default:
		return &json.UnmarshalTypeError{Value: "object", Type: reflect.TypeFor[Text]()}
	}

	return nil
}

func numberValue(v reflect.Value) any {
	n, ok := v.Interface().(Number)
	if !ok {
		return nil
	}

	return n.InexactFloat64()
}
