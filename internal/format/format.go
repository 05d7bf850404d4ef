// Package format turns card values into display strings.
//
// Every function is total: an Absent value, or a value of a kind the
// function does not format, becomes NA.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/featrix/modelcard/internal/card"
)

// NA is displayed for every absent value.
const NA = "N/A"

// DefaultPrecision is the number of fractional digits used for plain numbers.
const DefaultPrecision = 4

// Number rounds v to precision digits then strips trailing zeros and a
// trailing decimal point: 0.9000 is "0.9", 1.0 is "1".
func Number(v card.Value, precision int) string {
	f, ok := v.Float()
	if !ok {
		return NA
	}
	return Float(f, precision)
}

// Float is Number for a bare float64.
func Float(f float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	s := strconv.FormatFloat(f, 'f', precision, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// Percentage scales a 0..1 fraction to a percentage with two decimals.
func Percentage(v card.Value) string {
	f, ok := v.Float()
	if !ok {
		return NA
	}
	return fmt.Sprintf("%.2f%%", f*100)
}

// LargeInteger groups thousands with commas independent of locale.
// Fractional values keep their fraction.
func LargeInteger(v card.Value) string {
	f, ok := v.Float()
	if !ok {
		return NA
	}
	if v.IsInteger() {
		return humanize.Comma(int64(f))
	}
	return humanize.Commaf(f)
}

// Duration renders minutes as "2h 5m (125.40 minutes)". Hours and minutes
// use floored division so negative durations stay consistent.
func Duration(v card.Value) string {
	m, ok := v.Float()
	if !ok {
		return NA
	}
	hours := math.Floor(m / 60)
	minutes := math.Floor(m - hours*60)
	return fmt.Sprintf("%dh %dm (%.2f minutes)", int64(hours), int64(minutes), m)
}

// TruncateList joins at most maxVisible items with ", " and appends
// "(+N more)" when items were left out. An empty or absent list is NA.
func TruncateList(v card.Value, maxVisible int) string {
	items := v.Items()
	if len(items) == 0 {
		return NA
	}
	if maxVisible < 0 {
		maxVisible = 0
	}
	shown := items
	if len(shown) > maxVisible {
		shown = shown[:maxVisible]
	}
	parts := make([]string, len(shown))
	for i, item := range shown {
		parts[i] = Text(item)
	}
	s := strings.Join(parts, ", ")
	if rest := len(items) - len(shown); rest > 0 {
		if s != "" {
			s += " "
		}
		s += fmt.Sprintf("(+%d more)", rest)
	}
	return s
}

// Text is the generic display for any value.
func Text(v card.Value) string {
	switch v.Kind() {
	case card.Number:
		return Number(v, DefaultPrecision)
	case card.Text:
		s, _ := v.Str()
		return s
	case card.Boolean:
		b, _ := v.Bool()
		return strconv.FormatBool(b)
	case card.List:
		return TruncateList(v, len(v.Items()))
	case card.Object:
		return JSON(v)
	}
	return NA
}

// Upper is Text upper-cased. Absent stays NA.
func Upper(v card.Value) string {
	if v.IsAbsent() {
		return NA
	}
	return strings.ToUpper(Text(v))
}

// JSON renders an object or list as two-space indented JSON.
func JSON(v card.Value) string {
	raw := v.JSON()
	if raw == "" {
		return Text(v)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}

// Prefix returns the first n runes of s with no ellipsis.
func Prefix(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
