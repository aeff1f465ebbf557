package domain

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"integer", "2", "2"},
		{"decimal", "12.5", "12.5"},
		{"negative", "-3", "-3"},
		{"surrounding whitespace", "  42 ", "42"},
		{"exponent", "1e3", "1000"},
		{"empty", "", "0"},
		{"blank", "   ", "0"},
		{"letters", "abc", "0"},
		{"currency prefix", "$50", "0"},
		{"double dot", "1.2.3", "0"},
		{"largest finite magnitude", "1e308", "1e308"},
		{"beyond float range", "1e309", "0"},
		{"huge exponent", "1e99999999", "0"},
		{"negative huge exponent", "-7e99999999", "0"},
		{"exponent past int32", "1e9999999999", "0"},
		{"zero with huge exponent", "0e99999999", "0"},
		{"underflow", "1e-99999999", "0"},
		{"long fraction rounded", "0.1234567890123456789999", "0.123456789012345679"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceNumber(tt.input)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestCoerceAny(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"nil", nil, "0"},
		{"float", 2.5, "2.5"},
		{"NaN", math.NaN(), "0"},
		{"infinity", math.Inf(1), "0"},
		{"int", 7, "7"},
		{"string", "300", "300"},
		{"bad string", "three", "0"},
		{"json number", json.Number("1250"), "1250"},
		{"true", true, "1"},
		{"false", false, "0"},
		{"slice", []int{1}, "0"},
		{"huge json number", json.Number("1e400"), "0"},
		{"huge decimal", decimal.New(1, 5000), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceAny(tt.input)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got),
				"expected %s, got %s", tt.expected, got)
		})
	}
}

func TestCoerceNumber_HugeExponentIsCheap(t *testing.T) {
	done := make(chan decimal.Decimal, 1)

	go func() { done <- CoerceNumber("9e2147483647") }()

	select {
	case got := <-done:
		assert.True(t, got.IsZero())
		assert.Equal(t, "0", got.String())
	case <-time.After(2 * time.Second):
		t.Fatal("coercion expanded the exponent")
	}
}
