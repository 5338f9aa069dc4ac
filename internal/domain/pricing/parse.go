package pricing

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts loosely formatted user input ("1,200.50", "$99") to a
// number. Non-numeric characters are stripped and anything unparseable falls
// back to 0 so price display keeps working while a form is half filled.
func ParseAmount(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CurrencySymbol returns the display symbol for a currency code.
// Display only; never used in arithmetic.
func CurrencySymbol(code string) string {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "USD", "":
		return "$"
	case "EUR":
		return "€"
	case "GBP":
		return "£"
	case "AED":
		return "AED"
	default:
		return strings.ToUpper(strings.TrimSpace(code))
	}
}
