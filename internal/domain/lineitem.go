package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Editable line item fields.
const (
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unitPrice"
)

// DefaultItemDescription is the description given to newly added rows.
const DefaultItemDescription = "Item"

// LineItem is one row of the document. It has no identity beyond its position.
type LineItem struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// NewLineItem returns the row appended by an "add item" action.
func NewLineItem() LineItem {
	return LineItem{
		Description: DefaultItemDescription,
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.Zero,
	}
}

// Amount returns quantity multiplied by unit price.
func (li LineItem) Amount() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// SetField applies raw user input to one field. Numeric fields coerce bad input to zero.
func (li *LineItem) SetField(field, raw string) error {
	switch field {
	case FieldDescription:
		li.Description = raw
	case FieldQuantity:
		li.Quantity = CoerceNumber(raw)
	case FieldUnitPrice:
		li.UnitPrice = CoerceNumber(raw)
	default:
		return NewValidationErrorWithValue("field",
			"must be one of "+strings.Join(EditableFields(), ", "), field)
	}

	return nil
}

// EditableFields lists the field names accepted by SetField.
func EditableFields() []string {
	return []string{FieldDescription, FieldQuantity, FieldUnitPrice}
}

// SampleItems returns the rows a fresh form starts with.
func SampleItems() []LineItem {
	rows := []struct {
		desc  string
		price int64
	}{
		{"Consultation", 300},
		{"Project Draft", 2400},
		{"Implementation", 2500},
		{"Additional Supplies", 750},
		{"Monthly meeting", 2000},
	}

	items := make([]LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, LineItem{
			Description: r.desc,
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(r.price),
		})
	}

	return items
}

// CloneItems copies a slice of items so callers cannot alias owned state.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return []LineItem{}
	}

	out := make([]LineItem, len(items))
	copy(out, items)

	return out
}
