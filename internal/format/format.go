// Package format renders numbers, quantities and countries for display.
package format

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.AmericanEnglish)
	titler  = cases.Title(language.AmericanEnglish)
	regions = display.English.Regions()
)

// Currency formats whole US dollars, e.g. 1234 -> "$1,234"
func Currency(amount int) string {
	if amount < 0 {
		return printer.Sprintf("-$%d", -amount)
	}
	return printer.Sprintf("$%d", amount)
}

// Quantity pairs a count with its noun, pluralised with "s"
func Quantity(quantity int, noun string) string {
	if quantity == 1 {
		return fmt.Sprintf("%d %s", quantity, noun)
	}
	return fmt.Sprintf("%d %ss", quantity, noun)
}

// Title capitalises each word of a label
func Title(s string) string {
	return titler.String(s)
}

// Truncate cuts s to at most n runes
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// Country is a display form of an ISO 3166-1 alpha-2 code
type Country struct {
	Code string
	Name string
	Flag string
}

// FindCountry resolves code to its English name and flag emoji
func FindCountry(code string) (Country, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return Country{}, false
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return Country{}, false
	}
	name := regions.Name(region)
	if name == "" {
		return Country{}, false
	}
	return Country{Code: code, Name: name, Flag: Flag(code)}, true
}

// Flag builds the emoji flag from the two regional indicator symbols
func Flag(code string) string {
	var b strings.Builder
	for _, c := range strings.ToUpper(code) {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}

// CountryLabel is the flag and name shown on cards. Names longer than 20
// characters are cut and suffixed with "...".
func CountryLabel(code string) string {
	c, ok := FindCountry(code)
	if !ok {
		return code
	}
	name := c.Name
	if utf8.RuneCountInString(name) > 20 {
		name = Truncate(name, 20) + "..."
	}
	return c.Flag + " " + name
}
