package vdi

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders value with exactly two fractional digits. nil and the
// empty string become "0.00". Values that do not parse as a number are
// returned unchanged.
func FormatCurrency(value interface{}) string {
	if value == nil {
		return "0.00"
	}
	s, ok := stringify(value)
	if !ok {
		return s
	}
	if s == "" {
		return "0.00"
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return d.StringFixed(2)
}

func parseDecimal(value interface{}) (decimal.Decimal, bool) {
	s, ok := stringify(value)
	if !ok || strings.TrimSpace(s) == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
