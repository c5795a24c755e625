// Package metric holds the numeric result type shared by every extracted
// financial field, along with the text normalization used to produce it.
package metric

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// UnavailableText is how an unavailable value is rendered in output tables.
const UnavailableText = "N/A"

// numericPattern is the strict shape a normalized value must have.
var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// currencyMarkers are removed before parsing. Longer markers come first so
// "Rs." is not left behind as a stray ".".
var currencyMarkers = []string{"Rs.", "Rs", "₹", "$", "€", "£"}

// Value is a parsed metric: either a finite number or unavailable.
// The zero Value is unavailable.
type Value struct {
	number float64
	ok     bool
}

// Of returns an available Value. NaN and infinities are unavailable.
func Of(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{number: f, ok: true}
}

// Unavailable returns the unavailable marker.
func Unavailable() Value {
	return Value{}
}

// Available reports whether the value holds a number.
func (v Value) Available() bool {
	return v.ok
}

// Float returns the number and whether it is available.
func (v Value) Float() (float64, bool) {
	return v.number, v.ok
}

// String renders the value for display; unavailable renders as "N/A".
func (v Value) String() string {
	if !v.ok {
		return UnavailableText
	}
	return strconv.FormatFloat(v.number, 'f', -1, 64)
}

// Cell returns the value as a spreadsheet cell: a float64 when available,
// otherwise the unavailable text.
func (v Value) Cell() any {
	if !v.ok {
		return UnavailableText
	}
	return v.number
}

// Normalize strips formatting artifacts from a scraped number: thousands
// separators, currency symbols, percent signs, whitespace and any dash that
// is not a leading minus sign.
func Normalize(text string) string {
	s := strings.TrimSpace(text)
	for _, marker := range currencyMarkers {
		s = strings.ReplaceAll(s, marker, "")
	}

	negative := false
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == ',' || r == '%':
		case unicode.IsSpace(r):
		case r == '-' || r == '–' || r == '−':
			if b.Len() == 0 {
				negative = true
			}
		default:
			b.WriteRune(r)
		}
	}

	out := b.String()
	if negative && out != "" {
		out = "-" + out
	}
	return out
}

// Parse normalizes text and parses it against the strict numeric pattern.
// Anything that does not match resolves to unavailable.
func Parse(text string) Value {
	s := Normalize(text)
	if !numericPattern.MatchString(s) {
		return Value{}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}
	}
	return Of(f)
}

// Round returns f rounded half away from zero to the given decimal places.
func Round(f float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(f*scale) / scale
}
