// Package vnformat renders numbers and text the way the clinic's Vietnamese
// screens show them: dot thousands separators and a trailing đồng sign.
package vnformat

import (
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Vietnamese)

// Count formats n with grouping, e.g. 12.345.
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// VND formats an amount in đồng rounded to the unit, e.g. 1.500.000 ₫.
func VND(amount float64) string {
	return printer.Sprintf("%d", int64(math.Round(amount))) + " ₫"
}

// Percent formats an integer percentage, e.g. 42%.
func Percent(p int) string {
	return printer.Sprintf("%d", p) + "%"
}

// Clip drops invalid UTF-8 from s and shortens it to at most n bytes without
// splitting a character.
func Clip(s string, n int) string {
	s = strings.ToValidUTF8(s, "")
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
