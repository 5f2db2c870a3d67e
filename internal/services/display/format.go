package display

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money formats a fiat amount as $1,234.56.
func Money(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)

	intPart, fracPart, _ := strings.Cut(s, ".")
	out := groupThousands(intPart) + "." + fracPart
	if neg {
		return "-$" + out
	}
	return "$" + out
}

// SignedMoney formats a fiat delta with an explicit sign.
func SignedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return Money(d)
	}
	return "+" + Money(d)
}

// Percent formats a ratio with an explicit sign, e.g. +3.25%.
func Percent(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}

// CoinAmount formats a coin quantity at the six decimal places the tracker
// service uses for held amounts.
func CoinAmount(d decimal.Decimal) string {
	return d.StringFixed(6)
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
