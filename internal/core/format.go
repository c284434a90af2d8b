// Package core holds the debt-summary domain: the CDP record model, the
// RREO reference-date resolver, the filter/aggregator and the Brazilian
// number formatting helpers.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatNumberBR renders a decimal in the Brazilian convention: dot as
// thousands separator, comma as decimal separator.
//
//	FormatNumberBR(decimal.NewFromFloat(1234567.891), 2) -> "1.234.567,89"
func FormatNumberBR(v decimal.Decimal, places int32) string {
	s := v.StringFixed(places)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i+1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}

// ParseNumberBR parses a locale-formatted number from the CDP export,
// where dots separate thousands and the comma marks decimals.
func ParseNumberBR(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}
