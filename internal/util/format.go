package util

import (
	"strconv"
	"strings"
)

// FormatAmount formats a sale amount with comma thousands separators and up to
// two decimals, trimming a ".00" tail: 1234567.5 -> "1,234,567.50", 300 -> "300".
func FormatAmount(amount float64) string {
	str := strconv.FormatFloat(amount, 'f', 2, 64)

	negative := strings.HasPrefix(str, "-")
	str = strings.TrimPrefix(str, "-")

	intPart, decPart, _ := strings.Cut(str, ".")

	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}

	result := intPart
	if decPart != "" && decPart != "00" {
		result += "." + decPart
	}
	if negative {
		result = "-" + result
	}
	return result
}
