// Package extract provides the text primitives of requirement extraction:
// token normalization, sentence splitting, proximity scoring and numeric
// value extraction.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/norma/pkg/vocab"
)

var (
	// decimalPointPattern matches a period between two digits.
	decimalPointPattern = regexp.MustCompile(`(\d)\.(\d)`)

	// rangeDashes are the dashes that turn a numeric token into a range.
	rangeDashes = []string{"-", "–"}
)

// Normalize prepares aggregated document text for sentence-level reading.
// Spelled-out numerals are converted to digits using the bundle's
// number-word language.
func Normalize(text string, b *vocab.Bundle) string {
	lang := ""
	if b != nil {
		lang = b.NumberWords
	}
	return rewriteTokens(text, b, func(token string) string {
		if lang == "" {
			return token
		}
		return ParseNumberWords(token, lang)
	})
}

// CleanForm is the section-level variant of Normalize. It rewrites ranges and
// split numbers the same way but leaves number words alone.
func CleanForm(text string, b *vocab.Bundle) string {
	return rewriteTokens(text, b, nil)
}

func rewriteTokens(text string, b *vocab.Bundle, convert func(string) string) string {
	from, to := "от", "до"
	if b != nil {
		from, to = b.Range.From, b.Range.To
	}

	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "\n", " ")
	text = strings.ReplaceAll(text, "(", "")
	text = strings.ReplaceAll(text, ")", "")

	raw := strings.Split(text, " ")
	tokens := make([]string, 0, len(raw))

	for i := 0; i < len(raw); i++ {
		token := raw[i]
		if convert != nil {
			token = convert(token)
		}
		if token == "" {
			continue
		}

		switch {
		case IsDigits(token) && i+1 < len(raw) && IsDigits(raw[i+1]):
			// "10 000 000" is one number split by spaces.
			for i+1 < len(raw) && IsDigits(raw[i+1]) {
				token += raw[i+1]
				i++
			}
			tokens = append(tokens, token)
		case StartsWithDigit(token) && containsDash(token):
			bounds := splitRange(token)
			tokens = append(tokens, from, bounds[0], to, bounds[1])
		default:
			tokens = append(tokens, token)
		}
	}

	return strings.Join(tokens, " ")
}

// splitRange splits "12-14" into its two bounds. The hyphen is tried before
// the en dash; a missing upper bound is empty.
func splitRange(token string) [2]string {
	for _, dash := range rangeDashes {
		if strings.Contains(token, dash) {
			parts := strings.Split(token, dash)
			return [2]string{parts[0], parts[1]}
		}
	}
	return [2]string{token, ""}
}

func containsDash(token string) bool {
	for _, dash := range rangeDashes {
		if strings.Contains(token, dash) {
			return true
		}
	}
	return false
}

// DecimalCommas turns "1.5" into "1,5" so that splitting on periods keeps
// decimals intact.
func DecimalCommas(text string) string {
	// Two passes handle overlapping matches such as "1.2.3".
	text = decimalPointPattern.ReplaceAllString(text, "$1,$2")
	return decimalPointPattern.ReplaceAllString(text, "$1,$2")
}

// SplitPeriods splits text on every period.
func SplitPeriods(text string) []string {
	return strings.Split(text, ".")
}

// Tokens splits a sentence on single spaces, the way every token scan does.
func Tokens(sentence string) []string {
	return strings.Split(sentence, " ")
}

// IsDigits reports whether s is a non-empty run of digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// StartsWithDigit reports whether the first rune of s is a digit.
func StartsWithDigit(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsDigit(r)
}
