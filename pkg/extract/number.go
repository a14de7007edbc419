package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/coolbeans/norma/pkg/vocab"
)

// numberPattern matches decimals with a point or a comma, and integers.
var numberPattern = regexp.MustCompile(`-?\d+\.\d+|\d+,\d+|\d+`)

// NumberHit is a number found near a position.
type NumberHit struct {
	Text     string
	Value    float64
	Offset   int // rune offset of the match start
	Distance int // |Offset - center|
}

// ParseNumber parses "12", "1,5" or "1.5". Empty, separator-only and
// unparseable input is absent.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "," || s == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ExtractNumber returns the number bound to the value label occupying the rune
// range [start, end) of text. A number written directly before the label wins;
// otherwise the number nearest to the label's center within a small window.
func ExtractNumber(text string, start, end int) (float64, bool) {
	runes := []rune(text)
	if start < 0 || start > len(runes) || end < start {
		return 0, false
	}
	if end > len(runes) {
		end = len(runes)
	}

	k := start - 1
	for k >= 0 && unicode.IsSpace(runes[k]) {
		k--
	}
	runEnd := k + 1
	for k >= 0 && (unicode.IsDigit(runes[k]) || runes[k] == ',' || runes[k] == '.') {
		k--
	}
	if v, ok := ParseNumber(string(runes[k+1 : runEnd])); ok {
		return v, true
	}

	hits := FindNumbersNear(text, (start+end)/2, 10+(end-start)/2)
	if len(hits) == 0 {
		return 0, false
	}
	return hits[0].Value, true
}

// FindNumbersNear returns the parseable numbers inside [center-radius,
// center+radius) of text, nearest to center first. Offsets are in runes.
func FindNumbersNear(text string, center, radius int) []NumberHit {
	runes := []rune(text)
	from := max(center-radius, 0)
	to := min(center+radius, len(runes))
	if from >= to {
		return nil
	}

	window := string(runes[from:to])
	var hits []NumberHit
	for _, loc := range numberPattern.FindAllStringIndex(window, -1) {
		match := window[loc[0]:loc[1]]
		v, ok := ParseNumber(match)
		if !ok {
			continue
		}
		offset := from + runeOffset(window, loc[0])
		hits = append(hits, NumberHit{
			Text:     match,
			Value:    v,
			Offset:   offset,
			Distance: abs(offset - center),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})
	return hits
}

// QuantitativeValue finds the number attached to the value label closest to a
// property label within the same sentence. Property and value labels are
// matched case-insensitively. The distance is in runes.
func QuantitativeValue(sentence string, propertyLabels, valueLabels []string) (value float64, distance int, ok bool) {
	lowered := vocab.Lower(sentence)
	runes := []rune(lowered)
	distance = NoMatch

	props := vocab.NewVocabulary("property", propertyLabels).FindAll(sentence)
	values := vocab.NewVocabulary("value", valueLabels).FindAll(sentence)

	for _, p := range props {
		i := runeOffset(lowered, p.Start)
		lo, hi := sentenceBounds(runes, i)

		for _, v := range values {
			j := runeOffset(lowered, v.Start)
			if j < lo || j >= hi {
				continue
			}
			n, found := ExtractNumber(lowered, j, runeOffset(lowered, v.End))
			if !found {
				continue
			}
			if d := abs(i - j); d < distance {
				distance = d
				value = n
				ok = true
			}
		}
	}
	return value, distance, ok
}

// sentenceBounds returns the rune range around i delimited by periods. A period
// between two digits is a decimal point, not a boundary.
func sentenceBounds(runes []rune, i int) (int, int) {
	lo := i
	for lo > 0 && !isBoundary(runes, lo-1) {
		lo--
	}
	hi := i
	for hi < len(runes) && !isBoundary(runes, hi) {
		hi++
	}
	return lo, hi
}

func isBoundary(runes []rune, k int) bool {
	if runes[k] != '.' {
		return false
	}
	if k > 0 && k+1 < len(runes) && unicode.IsDigit(runes[k-1]) && unicode.IsDigit(runes[k+1]) {
		return false
	}
	return true
}
