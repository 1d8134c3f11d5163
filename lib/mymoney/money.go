package mymoney

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are handled as integer cents. Formatted currency strings like
// "$1,250.50" are parsed exactly once at the boundary; arithmetic never
// happens on strings or floats.

var currencySymbols = []string{"$", "€", "£"}

func ParseAmount(s string) (int64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty amount")
	}

	for _, symbol := range currencySymbols {
		if strings.HasPrefix(trimmed, symbol) {
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, symbol))
			break
		}
	}

	trimmed = strings.ReplaceAll(trimmed, ",", "")

	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return 0, fmt.Errorf("malformed amount %q: %s", s, err)
	}

	cents := amount.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-cent precision", s)
	}

	return cents.IntPart(), nil
}

func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	plain := decimal.New(cents, -2).StringFixed(2)

	parts := strings.SplitN(plain, ".", 2)
	return sign + "$" + groupThousands(parts[0]) + "." + parts[1]
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
