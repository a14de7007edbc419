package requirements

import (
	"strconv"
	"strings"
	"unicode"
)

// Conversion factors into the integer units of the output record.
const (
	lineSpacingFactor = 240
	centimeterFactor  = 568
	millimeterFactor  = 56.8
	fontSizeFactor    = 2
)

// splitNumber separates the numeric runes of raw from the rest. A comma or
// point that follows a digit is a decimal separator.
func splitNumber(raw string) (float64, string, bool) {
	var num, rest strings.Builder
	prevDigit := false
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			num.WriteRune(r)
			prevDigit = true
			continue
		case (r == ',' || r == '.') && prevDigit:
			num.WriteByte('.')
		default:
			rest.WriteRune(r)
		}
		prevDigit = false
	}

	s := strings.TrimRight(num.String(), ".")
	if s == "" {
		return 0, rest.String(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, rest.String(), false
	}
	return v, rest.String(), true
}

// LineSpacing converts a spacing multiplier such as "1,5" to 240ths of a
// line. Unparseable input is absent.
func LineSpacing(raw string) *int {
	v, _, ok := splitNumber(raw)
	if !ok {
		return nil
	}
	n := int(v * lineSpacingFactor)
	return &n
}

// Linear converts a length to twips. The unit is taken from unit, or from the
// non-numeric part of raw when unit is empty. Without a recognized unit the
// number is kept as is, truncated.
func Linear(raw, unit string) *int {
	v, rest, ok := splitNumber(raw)
	if !ok {
		return nil
	}
	if unit == "" {
		unit = rest
	}
	unit = strings.ToLower(unit)

	var n int
	switch {
	case strings.Contains(unit, "см") || strings.Contains(unit, "cm"):
		n = int(v * centimeterFactor)
	case strings.Contains(unit, "мм") || strings.Contains(unit, "mm"):
		n = int(v * millimeterFactor)
	default:
		n = int(v)
	}
	return &n
}

// FontSize converts a point size to half-points.
func FontSize(raw string) *int {
	v, _, ok := splitNumber(raw)
	if !ok {
		return nil
	}
	n := int(v * fontSizeFactor)
	return &n
}

func intPtr(n int) *int {
	return &n
}
