package billing

import (
	"math"
	"strconv"
	"strings"
)

// FormatAmount renders a monetary value with thousands separators and exactly
// two decimal places, e.g. 1234567.8 -> "1,234,567.80".
func FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(fracPart)
	return b.String()
}

// FormatMoney prefixes the formatted amount with the currency code, matching
// how every money value appears on rendered documents: "MVR 1,234.50".
func FormatMoney(currency string, v float64) string {
	return currency + " " + FormatAmount(v)
}

// FormatDisplayDate converts a stored ISO "YYYY-MM-DD" date to the day-first
// "DD-MM-YYYY" order used on printed documents. Anything that does not look
// like an ISO date is returned unchanged.
func FormatDisplayDate(iso string) string {
	if iso == "" {
		return ""
	}
	parts := strings.Split(iso, "-")
	if len(parts) != 3 {
		return iso
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}
