// Package utils provides shared formatting helpers.
package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats a price with two decimal places and thousands
// separators, e.g. 300000 -> "300,000.00".
func FormatAmount(d decimal.Decimal) string {
	str := d.StringFixed(2)
	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	parts := strings.SplitN(str, ".", 2)
	result := groupThousands(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent formats a percentage with one decimal place.
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// FormatSignedPercent formats a percentage with an explicit sign for
// positive values.
func FormatSignedPercent(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + FormatPercent(d)
	}
	return FormatPercent(d)
}
