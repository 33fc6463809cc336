package report

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is the locale-aware message printer for number formatting.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators.
// Example: FormatNumber(18248) returns "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat formats f with the given number of decimals and thousand
// separators. Example: FormatFloat(1234.567, 2) returns "1,234.57".
func FormatFloat(f float64, precision int) string {
	return groupDigits(strconv.FormatFloat(f, 'f', max(precision, 0), 64))
}

// FormatMoney formats an amount with two decimals and thousand separators.
func FormatMoney(d decimal.Decimal) string {
	return groupDigits(d.StringFixed(2))
}

// groupDigits inserts separators into the integer part of a plain decimal
// string, keeping the sign and fractional digits as they are.
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return sign + s
	}
	out := sign + FormatNumber(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}
